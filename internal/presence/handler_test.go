package presence_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal"
	"github.com/smdiallo/presence-management/internal/employee"
	"github.com/smdiallo/presence-management/internal/presence"
	"github.com/smdiallo/presence-management/internal/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// mockPresenceService implements presence.ServiceAPI for handler tests
type mockPresenceService struct {
	clockInResult  *presence.Presence
	clockInErr     error
	clockOutResult *presence.Presence
	clockOutErr    error
	board          []presence.StampRow
	today          []*presence.Presence
	history        []*presence.Presence
	totalHours     float64

	clockInCalls  []string
	clockOutCalls []string
}

func (m *mockPresenceService) ClockIn(matricule string) (*presence.Presence, error) {
	m.clockInCalls = append(m.clockInCalls, matricule)
	return m.clockInResult, m.clockInErr
}

func (m *mockPresenceService) ClockOut(matricule string) (*presence.Presence, error) {
	m.clockOutCalls = append(m.clockOutCalls, matricule)
	return m.clockOutResult, m.clockOutErr
}

func (m *mockPresenceService) Today() ([]*presence.Presence, error) {
	return m.today, nil
}

func (m *mockPresenceService) History() ([]*presence.Presence, float64, error) {
	return m.history, m.totalHours, nil
}

func (m *mockPresenceService) Board() ([]presence.StampRow, error) {
	return m.board, nil
}

var _ = Describe("Presence Handler", func() {
	var (
		mockService *mockPresenceService
		directory   *MockDirectory
		router      chi.Router
		sessions    *transport.SessionManager
	)

	BeforeEach(func() {
		mockService = &mockPresenceService{}
		directory = NewMockDirectory()
		directory.AddEmployee(&employee.Employee{Matricule: "E001", LastName: "Diallo", FirstName: "Mamadou"})

		sessions = transport.NewSessionManager("test-secret-key-0123456789abcdef")
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		base := transport.NewBaseHandler(logger, sessions)
		handler := presence.NewHandler(base, mockService, directory)

		router = chi.NewRouter()
		router.Post("/entry/{matricule}", handler.Entry)
		router.Post("/exit/{matricule}", handler.Exit)
		router.Get("/presences/enregistrer", handler.Register)
		router.Get("/presences/jour", handler.Today)
		router.Get("/presences/historique", handler.History)
	})

	Describe("POST /entry/{matricule}", func() {
		Context("when the entry is accepted", func() {
			BeforeEach(func() {
				mockService.clockInResult = &presence.Presence{
					ID:        1,
					Matricule: "E001",
					EntryTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local),
				}
			})

			It("should redirect to the stamping view", func() {
				req := httptest.NewRequest(http.MethodPost, "/entry/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusSeeOther))
				Expect(rec.Header().Get("Location")).To(Equal("/presences/enregistrer"))
				Expect(mockService.clockInCalls).To(Equal([]string{"E001"}))
			})

			It("should flash the confirmation with the employee name and timestamp", func() {
				req := httptest.NewRequest(http.MethodPost, "/entry/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				flashes := drainFlashes(sessions, rec, "/presences/enregistrer")
				Expect(flashes).To(HaveLen(1))
				Expect(flashes[0].Category).To(Equal("success"))
				Expect(flashes[0].Message).To(Equal("Entrée enregistrée pour Diallo Mamadou à 01-01-2024 08:00:00"))
			})
		})

		Context("when the daily entry already exists", func() {
			BeforeEach(func() {
				mockService.clockInErr = internal.ErrDuplicateEntry
			})

			It("should soft-fail with a redirect, never an error page", func() {
				req := httptest.NewRequest(http.MethodPost, "/entry/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusSeeOther))
				Expect(rec.Header().Get("Location")).To(Equal("/presences/enregistrer"))
			})

			It("should flash the personalized duplicate message", func() {
				req := httptest.NewRequest(http.MethodPost, "/entry/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				flashes := drainFlashes(sessions, rec, "/presences/enregistrer")
				Expect(flashes).To(HaveLen(1))
				Expect(flashes[0].Category).To(Equal("error"))
				Expect(flashes[0].Message).To(Equal("L'employé Diallo Mamadou a déjà enregistré son entrée pour aujourd'hui."))
			})
		})

		Context("when the matricule is unknown", func() {
			BeforeEach(func() {
				mockService.clockInErr = internal.ErrEmployeeNotFound
			})

			It("should soft-fail with a flash instead of a 404 page", func() {
				req := httptest.NewRequest(http.MethodPost, "/entry/E999", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusSeeOther))

				flashes := drainFlashes(sessions, rec, "/presences/enregistrer")
				Expect(flashes).To(HaveLen(1))
				Expect(flashes[0].Message).To(Equal("Matricule non trouvé."))
			})
		})
	})

	Describe("POST /exit/{matricule}", func() {
		Context("when an open entry is closed", func() {
			BeforeEach(func() {
				exit := time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)
				mockService.clockOutResult = &presence.Presence{
					ID:        1,
					Matricule: "E001",
					EntryTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local),
					ExitTime:  &exit,
				}
			})

			It("should redirect with the exit confirmation", func() {
				req := httptest.NewRequest(http.MethodPost, "/exit/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusSeeOther))

				flashes := drainFlashes(sessions, rec, "/presences/enregistrer")
				Expect(flashes[0].Message).To(Equal("Sortie enregistrée pour Diallo Mamadou à 01-01-2024 17:30:00"))
			})
		})

		Context("when no open entry exists", func() {
			BeforeEach(func() {
				mockService.clockOutErr = internal.ErrNoOpenEntry
			})

			It("should flash the no-open-entry message and redirect", func() {
				req := httptest.NewRequest(http.MethodPost, "/exit/E001", nil)
				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, req)

				Expect(rec.Code).To(Equal(http.StatusSeeOther))

				flashes := drainFlashes(sessions, rec, "/presences/enregistrer")
				Expect(flashes[0].Category).To(Equal("error"))
				Expect(flashes[0].Message).To(Equal("Aucune entrée ouverte pour cet employé."))
			})
		})
	})

	Describe("GET /presences/enregistrer", func() {
		BeforeEach(func() {
			mockService.board = []presence.StampRow{
				{Employee: &employee.Employee{Matricule: "E001", LastName: "Diallo", FirstName: "Mamadou"}},
			}
		})

		It("should render the stamping board", func() {
			req := httptest.NewRequest(http.MethodGet, "/presences/enregistrer", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("E001"))
		})
	})

	Describe("GET /presences/historique", func() {
		BeforeEach(func() {
			exit := time.Date(2024, 1, 1, 17, 30, 0, 0, time.Local)
			mockService.history = []*presence.Presence{
				{Matricule: "E001", EntryTime: time.Date(2024, 1, 1, 8, 0, 0, 0, time.Local), ExitTime: &exit},
			}
			mockService.totalHours = 9.5
		})

		It("should render the history with the hour total", func() {
			req := httptest.NewRequest(http.MethodGet, "/presences/historique", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("9.50"))
		})
	})
})

// drainFlashes replays the cookies set by a response on a fresh request,
// the way a browser would after the redirect, and drains pending flashes.
func drainFlashes(sessions *transport.SessionManager, rec *httptest.ResponseRecorder, target string) []transport.Flash {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return sessions.Flashes(httptest.NewRecorder(), req)
}
