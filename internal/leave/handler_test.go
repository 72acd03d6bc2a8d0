package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/leave-management/internal/auth"
	"github.com/frahmantamala/leave-management/internal/leave"
	"github.com/frahmantamala/leave-management/internal/transport"
	"github.com/frahmantamala/leave-management/internal/user"
	"github.com/frahmantamala/leave-management/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// asUser stands in for the access guard.
func asUser(u *user.User) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(user.ContextWithUser(r.Context(), u)))
		})
	}
}

var _ = Describe("Leave Handler", func() {
	var (
		f       *fixture
		handler *leave.Handler
		serve   func(u *user.User, method, path, body string) *httptest.ResponseRecorder
	)

	BeforeEach(func() {
		f = newFixture()
		base := transport.NewBaseHandler(logger.Discard())
		handler = leave.NewHandler(base, f.svc, auth.NewABACPolicy())

		serve = func(u *user.User, method, path, body string) *httptest.ResponseRecorder {
			router := chi.NewRouter()
			router.Get("/leave-types", handler.GetLeaveTypes)
			router.Group(func(r chi.Router) {
				if u != nil {
					r.Use(asUser(u))
				}
				r.Post("/leaves", handler.CreateLeave)
				r.Get("/leaves/mine", handler.GetMyLeaves)
				r.Get("/leaves", handler.GetAllLeaves)
				r.Get("/leaves/{id}", handler.GetLeave)
				r.Patch("/leaves/{id}/status", handler.UpdateLeaveStatus)
			})

			req := httptest.NewRequest(method, path, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			return w
		}
	})

	create := func(body string) leave.Response {
		w := serve(f.employee, http.MethodPost, "/leaves", body)
		Expect(w.Code).To(Equal(http.StatusCreated), w.Body.String())
		var resp leave.ItemResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		return resp.Data
	}

	It("creates a leave and renders calendar dates", func() {
		data := create(`{"leave_type":"vacation","start_date":"2025-03-10","end_date":"2025-03-12","reason":"trip"}`)
		Expect(data.StartDate).To(Equal("2025-03-10"))
		Expect(data.EndDate).To(Equal("2025-03-12"))
		Expect(data.TotalDays).To(Equal(3))
		Expect(data.TotalHours).To(Equal(24))
		Expect(data.Status).To(Equal(leave.StatusPending))
	})

	It("answers 400 with field details for invalid input", func() {
		w := serve(f.employee, http.MethodPost, "/leaves", `{"leave_type":"vacation","start_date":"2025-02-01","end_date":"2025-02-02","reason":"late"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("DATE_IN_PAST"))
	})

	It("answers 409 for an overlapping leave", func() {
		create(`{"leave_type":"vacation","start_date":"2025-03-10","end_date":"2025-03-12","reason":"trip"}`)
		w := serve(f.employee, http.MethodPost, "/leaves", `{"leave_type":"sick","start_date":"2025-03-11","end_date":"2025-03-11","reason":"flu"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("LEAVE_OVERLAP"))
	})

	It("lists own leaves with a count", func() {
		create(`{"leave_type":"vacation","start_date":"2025-03-10","end_date":"2025-03-12","reason":"trip"}`)

		w := serve(f.employee, http.MethodGet, "/leaves/mine", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp leave.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Data[0].OwnerID).To(Equal(f.employee.ID))
	})

	It("decides a leave and refuses a second decision", func() {
		data := create(`{"leave_type":"vacation","start_date":"2025-03-10","end_date":"2025-03-12","reason":"trip"}`)

		w := serve(f.admin, http.MethodPatch, "/leaves/"+data.ID+"/status", `{"status":"approved","comments":"ok"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp leave.ItemResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Data.Status).To(Equal(leave.StatusApproved))
		Expect(resp.Data.ReviewerID).To(HaveValue(Equal(f.admin.ID)))

		w = serve(f.admin, http.MethodPatch, "/leaves/"+data.ID+"/status", `{"status":"rejected"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("ILLEGAL_TRANSITION"))
	})

	It("answers 404 when deciding an unknown leave", func() {
		w := serve(f.admin, http.MethodPatch, "/leaves/unknown/status", `{"status":"approved"}`)
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("lets owners and admins read a leave but nobody else", func() {
		data := create(`{"leave_type":"vacation","start_date":"2025-03-10","end_date":"2025-03-12","reason":"trip"}`)
		stranger, err := f.users.Create(context.Background(), user.Profile{Email: "s@co.com", Password: "pw"})
		Expect(err).NotTo(HaveOccurred())

		Expect(serve(f.employee, http.MethodGet, "/leaves/"+data.ID, "").Code).To(Equal(http.StatusOK))
		Expect(serve(f.admin, http.MethodGet, "/leaves/"+data.ID, "").Code).To(Equal(http.StatusOK))
		Expect(serve(stranger, http.MethodGet, "/leaves/"+data.ID, "").Code).To(Equal(http.StatusForbidden))
	})

	It("requires an identity", func() {
		Expect(serve(nil, http.MethodGet, "/leaves/mine", "").Code).To(Equal(http.StatusUnauthorized))
	})

	It("lists leave types without authentication", func() {
		w := serve(nil, http.MethodGet, "/leave-types", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var resp leave.TypesResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.Data).To(HaveLen(7))
	})
})
