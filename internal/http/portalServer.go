package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"stafflink/internal/attendance"
	"stafflink/internal/config"
	"stafflink/internal/directory"
	"stafflink/internal/messaging"
	"stafflink/internal/notify"
	"stafflink/internal/onboarding"
	"stafflink/internal/session"
)

// PortalServer serves the multi-page portal UI on localhost. Every page
// resolves the identity from the session manager on each request, the same
// way the original views re-read the session on mount.
type PortalServer struct {
	server *http.Server
	wg     sync.WaitGroup

	views *views
}

// Deps collects the services the portal pages drive.
type Deps struct {
	Config     *config.Config
	Sessions   *session.Manager
	Directory  *directory.Provider
	Engine     *messaging.Engine
	Feed       *notify.Feed
	Onboarding *onboarding.Service
	Attendance *attendance.Service
}

func NewPortalServer(deps Deps, addr string) *PortalServer {
	v := newViews(deps)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/messages", http.StatusFound)
	})

	mux.HandleFunc("GET /messages", v.MessagesPage)
	mux.HandleFunc("POST /messages/select", v.SelectConversation)
	mux.HandleFunc("POST /messages/send", v.SendMessage)

	mux.HandleFunc("GET /notifications", v.NotificationsPage)
	mux.HandleFunc("POST /notifications/{id}/read", v.MarkNotificationRead)
	mux.HandleFunc("GET /notifications/badge", v.NotificationBadge)
	mux.HandleFunc("POST /notifications/badge/{id}/read", v.MarkBadgeRead)

	mux.HandleFunc("GET /onboarding", v.OnboardingPage)
	mux.HandleFunc("POST /onboarding/{id}/approve", v.ApproveOnboarding)
	mux.HandleFunc("POST /onboarding/{id}/reject", v.RejectOnboarding)
	mux.HandleFunc("POST /onboarding/{id}", v.UpdateOnboarding)

	mux.HandleFunc("GET /attendance", v.AttendancePage)
	mux.HandleFunc("GET /leaves", v.LeavesPage)
	mux.HandleFunc("POST /leaves", v.ApplyLeave)

	if addr == "" {
		addr = "localhost:8080"
	}

	return &PortalServer{
		server: &http.Server{
			Addr:    addr,
			Handler: mux,
		},
		views: v,
	}
}

func (s *PortalServer) Start() error {
	log.Printf("Portal started on %s", s.server.Addr)
	s.wg.Add(1)
	defer s.wg.Done()

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *PortalServer) Shutdown(ctx context.Context) error {
	defer s.wg.Wait()
	return s.server.Shutdown(ctx)
}
