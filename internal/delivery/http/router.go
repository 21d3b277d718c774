package http

import (
	"net/http"

	"github.com/echanneling/echanneling/internal/delivery/http/handler"
	"github.com/echanneling/echanneling/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	hospitalHandler       *handler.HospitalHandler
	doctorHandler         *handler.DoctorHandler
	staffHandler          *handler.StaffHandler
	sessionHandler        *handler.SessionHandler
	appointmentHandler    *handler.AppointmentHandler
	prescriptionHandler   *handler.PrescriptionHandler
	invoiceHandler        *handler.InvoiceHandler
	specializationHandler *handler.SpecializationHandler
	auditLogHandler       *handler.AuditLogHandler
	dashboardHandler      *handler.DashboardHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	rateLimitMiddleware   *middleware.RateLimitMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	hospitalHandler *handler.HospitalHandler,
	doctorHandler *handler.DoctorHandler,
	staffHandler *handler.StaffHandler,
	sessionHandler *handler.SessionHandler,
	appointmentHandler *handler.AppointmentHandler,
	prescriptionHandler *handler.PrescriptionHandler,
	invoiceHandler *handler.InvoiceHandler,
	specializationHandler *handler.SpecializationHandler,
	auditLogHandler *handler.AuditLogHandler,
	dashboardHandler *handler.DashboardHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		hospitalHandler:       hospitalHandler,
		doctorHandler:         doctorHandler,
		staffHandler:          staffHandler,
		sessionHandler:        sessionHandler,
		appointmentHandler:    appointmentHandler,
		prescriptionHandler:   prescriptionHandler,
		invoiceHandler:        invoiceHandler,
		specializationHandler: specializationHandler,
		auditLogHandler:       auditLogHandler,
		dashboardHandler:      dashboardHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		rateLimitMiddleware:   rateLimitMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.Me).Methods(http.MethodGet)

	// Public browsing: anyone can discover hospitals, specializations and
	// available sessions without an account.
	api.HandleFunc("/hospitals", r.hospitalHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{id}", r.hospitalHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/hospitals/{hospitalId}/doctors", r.doctorHandler.ListByHospital).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/specializations", r.specializationHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/sessions", r.sessionHandler.ListAvailable).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", r.sessionHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/slots", r.sessionHandler.GetSlots).Methods(http.MethodGet)

	// Pharmacies verify prescriptions by number without an account.
	api.HandleFunc("/prescriptions/{number}", r.prescriptionHandler.GetByNumber).Methods(http.MethodGet)

	// Patient routes (protected - patient only)
	patient := api.PathPrefix("").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/appointments", r.appointmentHandler.Create).Methods(http.MethodPost)

	// Appointment routes shared by patients and hospital staff
	appointments := api.PathPrefix("/appointments").Subrouter()
	appointments.Use(r.authMiddleware.Authenticate)
	appointments.HandleFunc("/{id}", r.appointmentHandler.GetByID).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}", r.appointmentHandler.Update).Methods(http.MethodPut)
	appointments.HandleFunc("/{id}/prescriptions", r.prescriptionHandler.ListByAppointment).Methods(http.MethodGet)
	appointments.HandleFunc("/{id}/invoices", r.invoiceHandler.ListByAppointment).Methods(http.MethodGet)

	// Invoice lookup by document number
	documents := api.PathPrefix("").Subrouter()
	documents.Use(r.authMiddleware.Authenticate)
	documents.HandleFunc("/invoices/{number}", r.invoiceHandler.GetByNumber).Methods(http.MethodGet)

	// Session scheduling is open to doctor and hospital accounts; the
	// usecase scopes each caller to its own hospital or doctor record.
	scheduling := api.PathPrefix("").Subrouter()
	scheduling.Use(r.authMiddleware.Authenticate)
	scheduling.Use(middleware.RequireHospitalStaff)
	scheduling.HandleFunc("/sessions", r.sessionHandler.Create).Methods(http.MethodPost)

	// Doctor routes (protected - doctor only)
	doctor := api.PathPrefix("/appointments").Subrouter()
	doctor.Use(r.authMiddleware.Authenticate)
	doctor.Use(middleware.RequireDoctor)
	doctor.HandleFunc("/{id}/complete", r.appointmentHandler.Complete).Methods(http.MethodPost)
	doctor.HandleFunc("/{id}/prescriptions", r.prescriptionHandler.Issue).Methods(http.MethodPost)

	// Hospital routes (protected - hospital account or admin)
	hospital := api.PathPrefix("").Subrouter()
	hospital.Use(r.authMiddleware.Authenticate)
	hospital.Use(middleware.RequireHospitalOrAdmin)
	hospital.HandleFunc("/hospitals/{id}", r.hospitalHandler.Update).Methods(http.MethodPut)
	hospital.HandleFunc("/hospitals/{hospitalId}/dashboard", r.dashboardHandler.Hospital).Methods(http.MethodGet)

	// Doctor management per hospital
	hospital.HandleFunc("/hospitals/{hospitalId}/doctors", r.doctorHandler.Create).Methods(http.MethodPost)
	hospital.HandleFunc("/hospitals/{hospitalId}/doctors/{doctorId}", r.doctorHandler.Update).Methods(http.MethodPut)
	hospital.HandleFunc("/hospitals/{hospitalId}/doctors/{doctorId}/affiliation", r.doctorHandler.Affiliate).Methods(http.MethodPost)
	hospital.HandleFunc("/hospitals/{hospitalId}/doctors/{doctorId}/affiliation", r.doctorHandler.Unaffiliate).Methods(http.MethodDelete)

	// Staff management per hospital
	hospital.HandleFunc("/hospitals/{hospitalId}/nurses", r.staffHandler.CreateNurse).Methods(http.MethodPost)
	hospital.HandleFunc("/hospitals/{hospitalId}/nurses", r.staffHandler.ListNurses).Methods(http.MethodGet)
	hospital.HandleFunc("/hospitals/{hospitalId}/nurses/{staffId}", r.staffHandler.UpdateNurse).Methods(http.MethodPut)
	hospital.HandleFunc("/hospitals/{hospitalId}/nurses/{staffId}", r.staffHandler.DeleteNurse).Methods(http.MethodDelete)
	hospital.HandleFunc("/hospitals/{hospitalId}/cashiers", r.staffHandler.CreateCashier).Methods(http.MethodPost)
	hospital.HandleFunc("/hospitals/{hospitalId}/cashiers", r.staffHandler.ListCashiers).Methods(http.MethodGet)
	hospital.HandleFunc("/hospitals/{hospitalId}/cashiers/{staffId}", r.staffHandler.UpdateCashier).Methods(http.MethodPut)
	hospital.HandleFunc("/hospitals/{hospitalId}/cashiers/{staffId}", r.staffHandler.DeleteCashier).Methods(http.MethodDelete)

	// Session management
	hospital.HandleFunc("/sessions/{id}", r.sessionHandler.Update).Methods(http.MethodPut)
	hospital.HandleFunc("/sessions/{id}", r.sessionHandler.Delete).Methods(http.MethodDelete)
	hospital.HandleFunc("/sessions/{id}/cancel", r.sessionHandler.Cancel).Methods(http.MethodPost)
	hospital.HandleFunc("/sessions/{id}/appointments", r.appointmentHandler.ListBySession).Methods(http.MethodGet)

	// Payment handling (cashiers log in with the hospital account)
	hospital.HandleFunc("/appointments/{id}/payment-status", r.appointmentHandler.UpdatePaymentStatus).Methods(http.MethodPatch)
	hospital.HandleFunc("/appointments/{id}/invoices", r.invoiceHandler.Issue).Methods(http.MethodPost)
	hospital.HandleFunc("/invoices/{number}/status", r.invoiceHandler.UpdateStatus).Methods(http.MethodPatch)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/hospitals", r.hospitalHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/specializations", r.specializationHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/specializations/{id}", r.specializationHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/specializations/{id}", r.specializationHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/appointments/{id}", r.appointmentHandler.Delete).Methods(http.MethodDelete)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.List).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetByID).Methods(http.MethodGet)
	admin.HandleFunc("/dashboard", r.dashboardHandler.Admin).Methods(http.MethodGet)

	// Global middleware
	r.router.Use(r.corsMiddleware.Handle)
	r.router.Use(r.rateLimitMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
