package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/auth"
	"github.com/smdiallo/presence-management/internal/transport"
	"github.com/smdiallo/presence-management/internal/transport/middleware"
	"golang.org/x/crypto/bcrypt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Auth Handler", func() {
	var (
		mockRepo *MockUserRepository
		router   chi.Router
		sessions *transport.SessionManager
	)

	BeforeEach(func() {
		mockRepo = NewMockUserRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := auth.NewService(mockRepo, logger, bcrypt.MinCost)
		Expect(service.EnsureAdmin()).To(Succeed())

		sessions = transport.NewSessionManager("test-secret-key-0123456789abcdef")
		base := transport.NewBaseHandler(logger, sessions)
		handler := auth.NewHandler(base, service)

		router = chi.NewRouter()
		router.Get("/login", handler.Login)
		router.Post("/login", handler.Login)
		router.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(sessions))
			r.Get("/logout", handler.Logout)
			r.Get("/settings", handler.Settings)
			r.Post("/settings", handler.Settings)
		})
	})

	postForm := func(target string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email, password string) *httptest.ResponseRecorder {
		return postForm("/login", url.Values{"email": {email}, "password": {password}}, nil)
	}

	Describe("GET /login", func() {
		It("should render the login form", func() {
			req := httptest.NewRequest(http.MethodGet, "/login", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("password"))
		})
	})

	Describe("POST /login", func() {
		It("should open a session and redirect to the dashboard", func() {
			rec := login(auth.DefaultAdminEmail, auth.DefaultAdminPassword)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/"))
			Expect(rec.Result().Cookies()).NotTo(BeEmpty())
		})

		It("should flash a generic error on bad credentials", func() {
			rec := login(auth.DefaultAdminEmail, "wrong")

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/login"))

			flashes := drainFlashes(sessions, rec, "/login")
			Expect(flashes).To(HaveLen(1))
			Expect(flashes[0].Message).To(Equal(internal.ErrInvalidCredentials.Message))
		})

		It("should use the same message for an unknown email", func() {
			rec := login("nobody@example.com", auth.DefaultAdminPassword)

			flashes := drainFlashes(sessions, rec, "/login")
			Expect(flashes[0].Message).To(Equal(internal.ErrInvalidCredentials.Message))
		})
	})

	Describe("session guard", func() {
		It("should redirect anonymous requests to the login page", func() {
			req := httptest.NewRequest(http.MethodGet, "/settings", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/login"))
		})

		It("should let an authenticated session through", func() {
			loginRec := login(auth.DefaultAdminEmail, auth.DefaultAdminPassword)

			req := httptest.NewRequest(http.MethodGet, "/settings", nil)
			for _, c := range loginRec.Result().Cookies() {
				req.AddCookie(c)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring(auth.DefaultAdminEmail))
		})
	})

	Describe("GET /logout", func() {
		It("should expire the session and redirect to the login page", func() {
			loginRec := login(auth.DefaultAdminEmail, auth.DefaultAdminPassword)

			req := httptest.NewRequest(http.MethodGet, "/logout", nil)
			for _, c := range loginRec.Result().Cookies() {
				req.AddCookie(c)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/login"))

			var expired bool
			for _, c := range rec.Result().Cookies() {
				if c.Name == "presence_session" && c.MaxAge < 0 {
					expired = true
				}
			}
			Expect(expired).To(BeTrue())
		})
	})

	Describe("POST /settings", func() {
		var cookies []*http.Cookie

		BeforeEach(func() {
			loginRec := login(auth.DefaultAdminEmail, auth.DefaultAdminPassword)
			cookies = loginRec.Result().Cookies()
		})

		It("should update the email and flash the confirmation", func() {
			rec := postForm("/settings", url.Values{
				"update_email": {"1"},
				"email":        {"new@example.com"},
			}, cookies)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/settings"))

			user, _ := mockRepo.GetByEmail("new@example.com")
			Expect(user).NotTo(BeNil())
		})

		It("should flash the wrong-password error without changing anything", func() {
			rec := postForm("/settings", url.Values{
				"update_password":  {"1"},
				"current_password": {"wrong"},
				"new_password":     {"secret"},
				"confirm_password": {"secret"},
			}, cookies)

			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			flashes := drainFlashesWith(sessions, rec, cookies)
			Expect(flashes).To(HaveLen(1))
			Expect(flashes[0].Message).To(Equal(internal.ErrWrongPassword.Message))
		})

		It("should flash the mismatch error when confirmations differ", func() {
			rec := postForm("/settings", url.Values{
				"update_password":  {"1"},
				"current_password": {auth.DefaultAdminPassword},
				"new_password":     {"secret"},
				"confirm_password": {"different"},
			}, cookies)

			flashes := drainFlashesWith(sessions, rec, cookies)
			Expect(flashes[0].Message).To(Equal(internal.ErrPasswordMismatch.Message))
		})
	})
})

// drainFlashes replays the cookies set by a response on a fresh request
// and drains pending flashes.
func drainFlashes(sessions *transport.SessionManager, rec *httptest.ResponseRecorder, target string) []transport.Flash {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return sessions.Flashes(httptest.NewRecorder(), req)
}

// drainFlashesWith prefers the refreshed session cookie from the response
// and falls back to the login cookies.
func drainFlashesWith(sessions *transport.SessionManager, rec *httptest.ResponseRecorder, fallback []*http.Cookie) []transport.Flash {
	req := httptest.NewRequest(http.MethodGet, "/settings", nil)
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		cookies = fallback
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return sessions.Flashes(httptest.NewRecorder(), req)
}
