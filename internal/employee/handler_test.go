package employee_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi"
	"github.com/smdiallo/presence-management/internal"
	employeeDatamodel "github.com/smdiallo/presence-management/internal/core/datamodel/employee"
	"github.com/smdiallo/presence-management/internal/employee"
	"github.com/smdiallo/presence-management/internal/transport"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Employee Handler", func() {
	var (
		mockRepo *MockRepository
		router   chi.Router
		sessions *transport.SessionManager
	)

	BeforeEach(func() {
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := employee.NewService(mockRepo, logger)

		sessions = transport.NewSessionManager("test-secret-key-0123456789abcdef")
		base := transport.NewBaseHandler(logger, sessions)
		handler := employee.NewHandler(base, service)

		router = chi.NewRouter()
		router.Get("/employes", handler.List)
		router.Post("/employes/add", handler.Add)
		router.Get("/edit_employe/{matricule}", handler.Edit)
		router.Post("/edit_employe/{matricule}", handler.Edit)
		router.Post("/delete_employe/{matricule}", handler.Delete)
	})

	postForm := func(target string, form url.Values) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	Describe("GET /employes", func() {
		It("should render the directory", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))

			req := httptest.NewRequest(http.MethodGet, "/employes", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("E001"))
			Expect(rec.Body.String()).To(ContainSubstring("Diallo"))
		})
	})

	Describe("POST /employes/add", func() {
		It("should create the employee and redirect", func() {
			rec := postForm("/employes/add", url.Values{
				"matricule": {"E001"},
				"nom":       {"Diallo"},
				"prenom":    {"Mamadou"},
			})

			Expect(rec.Code).To(Equal(http.StatusSeeOther))
			Expect(rec.Header().Get("Location")).To(Equal("/employes"))

			created, _ := mockRepo.GetByMatricule("E001")
			Expect(created).NotTo(BeNil())
		})

		It("should flash the conflict on a taken matricule and redirect", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))

			rec := postForm("/employes/add", url.Values{
				"matricule": {"E001"},
				"nom":       {"Ba"},
				"prenom":    {"Awa"},
			})

			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			flashes := drainFlashes(sessions, rec, "/employes")
			Expect(flashes).To(HaveLen(1))
			Expect(flashes[0].Category).To(Equal("error"))
			Expect(flashes[0].Message).To(Equal(internal.ErrMatriculeExists.Message))
		})
	})

	Describe("GET /edit_employe/{matricule}", func() {
		It("should prefill the form for a known matricule", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))

			req := httptest.NewRequest(http.MethodGet, "/edit_employe/E001", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(ContainSubstring("Mamadou"))
		})

		It("should return a hard 404 page for an unknown matricule", func() {
			req := httptest.NewRequest(http.MethodGet, "/edit_employe/E999", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /edit_employe/{matricule}", func() {
		It("should rekey and redirect", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))

			rec := postForm("/edit_employe/E001", url.Values{
				"matricule": {"E042"},
				"nom":       {"Diallo"},
				"prenom":    {"Mamadou"},
			})

			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			renamed, _ := mockRepo.GetByMatricule("E042")
			Expect(renamed).NotTo(BeNil())
		})

		It("should return a hard 404 page for an unknown matricule", func() {
			rec := postForm("/edit_employe/E999", url.Values{
				"matricule": {"E999"},
				"nom":       {"Ba"},
				"prenom":    {"Awa"},
			})

			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("POST /delete_employe/{matricule}", func() {
		It("should delete and flash the confirmation", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))

			rec := postForm("/delete_employe/E001", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			flashes := drainFlashes(sessions, rec, "/employes")
			Expect(flashes[0].Message).To(Equal("Employé Diallo Mamadou supprimé."))
		})

		It("should flash the restriction while presences exist", func() {
			mockRepo.Seed(seedEmployee("E001", "Diallo", "Mamadou"))
			mockRepo.withPresences["E001"] = true

			rec := postForm("/delete_employe/E001", nil)
			Expect(rec.Code).To(Equal(http.StatusSeeOther))

			flashes := drainFlashes(sessions, rec, "/employes")
			Expect(flashes[0].Category).To(Equal("error"))
			Expect(flashes[0].Message).To(Equal(internal.ErrEmployeeHasPresences.Message))
		})

		It("should return a hard 404 page for an unknown matricule", func() {
			rec := postForm("/delete_employe/E999", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})

func seedEmployee(matricule, lastName, firstName string) *employeeDatamodel.Employee {
	return &employeeDatamodel.Employee{
		Matricule: matricule,
		LastName:  lastName,
		FirstName: firstName,
	}
}

// drainFlashes replays the cookies set by a response on a fresh request
// and drains pending flashes.
func drainFlashes(sessions *transport.SessionManager, rec *httptest.ResponseRecorder, target string) []transport.Flash {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return sessions.Flashes(httptest.NewRecorder(), req)
}
