package http

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"io"
	"log"
	"net/http"
	"strconv"

	"stafflink/internal/content"
	"stafflink/internal/messaging"
	"stafflink/internal/models"
	"stafflink/internal/onboarding"
)

//go:embed templates/*.html
var templatesFS embed.FS

type views struct {
	deps Deps
	tmpl *template.Template
}

func newViews(deps Deps) *views {
	funcs := template.FuncMap{
		"sanitize":     content.Sanitize,
		"announcement": content.RenderAnnouncement,
	}
	return &views{
		deps: deps,
		tmpl: template.Must(template.New("portal").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")),
	}
}

func (v *views) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := v.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("failed to render %s: %v", name, err)
	}
}

// fail renders the persistent inline error state with a retry link back to
// the failed page.
func (v *views) fail(w http.ResponseWriter, retryPath string, err error) {
	w.WriteHeader(http.StatusBadGateway)
	v.render(w, "error.html", struct {
		Error     string
		RetryPath string
	}{Error: err.Error(), RetryPath: retryPath})
}

type peerView struct {
	models.Peer
	Unread int
}

func (v *views) MessagesPage(w http.ResponseWriter, r *http.Request) {
	identity, err := v.deps.Sessions.Current(models.KindEmployee)
	if err != nil {
		v.fail(w, "/messages", err)
		return
	}

	peers, err := v.deps.Directory.ListMessagingPeers(r.Context(), identity)
	if err != nil {
		v.fail(w, "/messages", err)
		return
	}

	unread := v.deps.Engine.Unread()
	peerViews := make([]peerView, len(peers))
	for i, peer := range peers {
		peerViews[i] = peerView{Peer: peer, Unread: unread[peer.ID]}
	}

	mode, peerID := v.deps.Engine.Mode()
	data := struct {
		Identity  models.Identity
		Peers     []peerView
		Broadcast bool
		PeerID    int64
		Direct    []models.DirectMessage
		Feed      []models.BroadcastMessage
		Draft     string
		Banner    string
	}{
		Identity:  identity,
		Peers:     peerViews,
		Broadcast: mode == messaging.ModeBroadcast,
		PeerID:    peerID,
		Direct:    v.deps.Engine.DirectMessages(),
		Feed:      v.deps.Engine.BroadcastMessages(),
		Draft:     v.deps.Engine.Draft(),
		Banner:    v.deps.Engine.Banner(),
	}
	v.render(w, "messages.html", data)
}

func (v *views) SelectConversation(w http.ResponseWriter, r *http.Request) {
	if r.FormValue("broadcast") != "" {
		// Selection errors surface via the engine banner on redirect.
		if err := v.deps.Engine.SelectBroadcast(r.Context()); err != nil {
			log.Printf("select broadcast: %v", err)
		}
	} else if raw := r.FormValue("peer"); raw != "" {
		peerID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			http.Error(w, "invalid peer id", http.StatusBadRequest)
			return
		}
		if err := v.deps.Engine.SelectPeer(r.Context(), peerID); err != nil {
			log.Printf("select peer %d: %v", peerID, err)
		}
	}

	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

func (v *views) SendMessage(w http.ResponseWriter, r *http.Request) {
	v.deps.Engine.SetDraft(r.FormValue("message"))
	if err := v.deps.Engine.Send(r.Context()); err != nil {
		// Draft stays; the banner shows until it ages out.
		log.Printf("send: %v", err)
	}

	http.Redirect(w, r, "/messages", http.StatusSeeOther)
}

func (v *views) NotificationsPage(w http.ResponseWriter, r *http.Request) {
	if err := v.deps.Feed.Refresh(r.Context()); err != nil {
		v.fail(w, "/notifications", err)
		return
	}

	data := struct {
		Notifications []models.Notification
	}{Notifications: v.deps.Feed.Notifications()}
	v.render(w, "notifications.html", data)
}

func (v *views) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	// Panel view: optimistic in-place patch, no re-fetch.
	if err := v.deps.Feed.MarkReadLocal(r.Context(), id); err != nil {
		v.fail(w, "/notifications", err)
		return
	}

	http.Redirect(w, r, "/notifications", http.StatusSeeOther)
}

func (v *views) NotificationBadge(w http.ResponseWriter, r *http.Request) {
	if err := v.deps.Feed.Refresh(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]int{"unread": v.deps.Feed.UnreadCount()}); err != nil {
		log.Printf("failed to encode badge response: %v", err)
	}
}

func (v *views) MarkBadgeRead(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid notification id", http.StatusBadRequest)
		return
	}

	// Bell widget: eager variant, the badge must reflect the upstream list.
	if err := v.deps.Feed.MarkRead(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (v *views) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	if _, err := v.deps.Sessions.Current(models.KindHRStaff); err != nil {
		v.fail(w, "/onboarding", err)
		return
	}

	status := r.URL.Query().Get("status")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	var (
		records []models.OnboardingRecord
		err     error
	)
	if status == "approved" {
		records, err = v.deps.Onboarding.ListApproved(r.Context())
	} else {
		status = "pending"
		records, err = v.deps.Onboarding.ListPending(r.Context())
	}
	if err != nil {
		v.fail(w, "/onboarding", err)
		return
	}

	data := struct {
		Status   string
		Page     int
		PrevPage int
		NextPage int
		Pages    int
		Records  []models.OnboardingRecord
	}{
		Status:   status,
		Page:     page,
		PrevPage: page - 1,
		NextPage: page + 1,
		Pages:    v.deps.Onboarding.Pages(records),
		Records:  v.deps.Onboarding.Page(records, page),
	}
	v.render(w, "onboarding.html", data)
}

func (v *views) ApproveOnboarding(w http.ResponseWriter, r *http.Request) {
	v.reviewOnboarding(w, r, v.deps.Onboarding.Approve)
}

func (v *views) RejectOnboarding(w http.ResponseWriter, r *http.Request) {
	v.reviewOnboarding(w, r, v.deps.Onboarding.Reject)
}

func (v *views) reviewOnboarding(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, id int64) error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid onboarding id", http.StatusBadRequest)
		return
	}

	if err := action(r.Context(), id); err != nil {
		v.fail(w, "/onboarding", err)
		return
	}

	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (v *views) UpdateOnboarding(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid onboarding id", http.StatusBadRequest)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	fields := make(map[string]string)
	for name, values := range r.MultipartForm.Value {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	var documents []onboarding.Document
	for field, headers := range r.MultipartForm.File {
		for _, header := range headers {
			file, err := header.Open()
			if err != nil {
				http.Error(w, "invalid upload", http.StatusBadRequest)
				return
			}
			data, err := io.ReadAll(file)
			_ = file.Close()
			if err != nil {
				http.Error(w, "invalid upload", http.StatusBadRequest)
				return
			}
			documents = append(documents, onboarding.Document{
				Field:    field,
				FileName: header.Filename,
				Data:     data,
			})
		}
	}

	if err := v.deps.Onboarding.UpdateDetails(r.Context(), id, fields, documents); err != nil {
		v.fail(w, "/onboarding", err)
		return
	}

	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (v *views) AttendancePage(w http.ResponseWriter, r *http.Request) {
	identity, err := v.deps.Sessions.Current(models.KindEmployee)
	if err != nil {
		v.fail(w, "/attendance", err)
		return
	}

	records, err := v.deps.Attendance.ListAttendance(r.Context(), identity.ID)
	if err != nil {
		v.fail(w, "/attendance", err)
		return
	}

	data := struct {
		Identity models.Identity
		Records  []models.AttendanceRecord
	}{Identity: identity, Records: records}
	v.render(w, "attendance.html", data)
}

func (v *views) LeavesPage(w http.ResponseWriter, r *http.Request) {
	identity, err := v.deps.Sessions.Current(models.KindEmployee)
	if err != nil {
		v.fail(w, "/leaves", err)
		return
	}

	requests, err := v.deps.Attendance.ListLeave(r.Context(), identity.ID)
	if err != nil {
		v.fail(w, "/leaves", err)
		return
	}

	data := struct {
		Identity models.Identity
		Requests []models.LeaveRequest
	}{Identity: identity, Requests: requests}
	v.render(w, "leaves.html", data)
}

func (v *views) ApplyLeave(w http.ResponseWriter, r *http.Request) {
	identity, err := v.deps.Sessions.Current(models.KindEmployee)
	if err != nil {
		v.fail(w, "/leaves", err)
		return
	}

	request := models.LeaveRequest{
		EmployeeID: identity.ID,
		Type:       r.FormValue("type"),
		StartDate:  r.FormValue("start_date"),
		EndDate:    r.FormValue("end_date"),
		Reason:     r.FormValue("reason"),
	}

	if _, err := v.deps.Attendance.ApplyLeave(r.Context(), request); err != nil {
		v.fail(w, "/leaves", err)
		return
	}

	http.Redirect(w, r, "/leaves", http.StatusSeeOther)
}
