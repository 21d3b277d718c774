package dto

// Response DTOs

type AdminDashboardResponse struct {
	TotalHospitals        int64 `json:"total_hospitals"`
	TotalDoctors          int64 `json:"total_doctors"`
	TotalPatients         int64 `json:"total_patients"`
	TotalSessions         int64 `json:"total_sessions"`
	ScheduledSessions     int64 `json:"scheduled_sessions"`
	TotalAppointments     int64 `json:"total_appointments"`
	PendingAppointments   int64 `json:"pending_appointments"`
	ServedAppointments    int64 `json:"served_appointments"`
	CancelledAppointments int64 `json:"cancelled_appointments"`
}

type HospitalDashboardResponse struct {
	TotalDoctors        int64 `json:"total_doctors"`
	TotalNurses         int64 `json:"total_nurses"`
	TotalCashiers       int64 `json:"total_cashiers"`
	TotalSessions       int64 `json:"total_sessions"`
	ScheduledSessions   int64 `json:"scheduled_sessions"`
	TotalAppointments   int64 `json:"total_appointments"`
	PendingAppointments int64 `json:"pending_appointments"`
}
