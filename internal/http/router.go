package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fitness-backend/internal/handlers"
	"fitness-backend/internal/middleware"
	"fitness-backend/internal/models"
)

func NewRouter(
	courseHandler *handlers.CourseHandler,
	orderHandler *handlers.OrderHandler,
	expenseHandler *handlers.ExpenseHandler,
	qrcodeHandler *handlers.QRCodeHandler,
	userHandler *handlers.UserHandler,
	customerHandler *handlers.CustomerHandler,
	uploadHandler *handlers.UploadHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Inside the router so the metrics path label is the route template
	r.Use(middleware.MetricsMiddleware)

	staff := authMiddleware.RequireStaff()
	coach := authMiddleware.RequireStaff(models.RoleCoach, models.RoleMaster, models.RoleAdmin)
	master := authMiddleware.RequireStaff(models.RoleMaster, models.RoleAdmin)
	member := authMiddleware.RequireMember()

	// Courses: anyone identified may browse, masters manage the catalog
	coursesAPI := r.PathPrefix("/api/courses").Subrouter()
	coursesAPI.Use(authMiddleware.Identify)
	coursesAPI.HandleFunc("", courseHandler.List).Methods("GET")
	coursesAPI.HandleFunc("", master(http.HandlerFunc(courseHandler.Create)).ServeHTTP).Methods("POST")
	coursesAPI.HandleFunc("/{id:[0-9]+}", courseHandler.Get).Methods("GET")
	coursesAPI.HandleFunc("/{id:[0-9]+}", master(http.HandlerFunc(courseHandler.Update)).ServeHTTP).Methods("PUT")
	coursesAPI.HandleFunc("/{id:[0-9]+}", authMiddleware.RequireAdmin(http.HandlerFunc(courseHandler.Delete)).ServeHTTP).Methods("DELETE")

	// Orders: members see their own, staff sell and adjust
	ordersAPI := r.PathPrefix("/api/orders").Subrouter()
	ordersAPI.Use(authMiddleware.Identify)
	ordersAPI.HandleFunc("", orderHandler.List).Methods("GET")
	ordersAPI.HandleFunc("", member(http.HandlerFunc(orderHandler.Create)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{id:[0-9]+}", orderHandler.Get).Methods("GET")
	ordersAPI.HandleFunc("/{id:[0-9]+}", master(http.HandlerFunc(orderHandler.Update)).ServeHTTP).Methods("PUT")
	ordersAPI.HandleFunc("/{id:[0-9]+}/comments", staff(http.HandlerFunc(orderHandler.Comment)).ServeHTTP).Methods("POST")
	ordersAPI.HandleFunc("/{id:[0-9]+}/receipt", orderHandler.Receipt).Methods("GET")

	// Expenses: redemption records and staff review
	expensesAPI := r.PathPrefix("/api/expenses").Subrouter()
	expensesAPI.Use(authMiddleware.Identify)
	expensesAPI.HandleFunc("", expenseHandler.List).Methods("GET")
	expensesAPI.HandleFunc("/{id:[0-9]+}", expenseHandler.Get).Methods("GET")
	expensesAPI.HandleFunc("/{id:[0-9]+}", master(http.HandlerFunc(expenseHandler.Review)).ServeHTTP).Methods("PUT")

	// QR codes: members issue, coaches scan
	qrcodeAPI := r.PathPrefix("/api/qrcode").Subrouter()
	qrcodeAPI.Use(authMiddleware.Identify)
	qrcodeAPI.HandleFunc("", member(http.HandlerFunc(qrcodeHandler.Issue)).ServeHTTP).Methods("POST")
	qrcodeAPI.HandleFunc("", coach(http.HandlerFunc(qrcodeHandler.Redeem)).ServeHTTP).Methods("PUT")

	// Users: profile is self-service, the directory is staff-facing
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Identify)
	usersAPI.HandleFunc("/profile", userHandler.Profile).Methods("GET")
	usersAPI.HandleFunc("/profile", userHandler.UpdateProfile).Methods("PUT")
	usersAPI.HandleFunc("/subscribe", userHandler.Subscribe).Methods("POST")
	usersAPI.HandleFunc("", staff(http.HandlerFunc(userHandler.List)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id:[0-9]+}", staff(http.HandlerFunc(userHandler.Get)).ServeHTTP).Methods("GET")
	usersAPI.HandleFunc("/{id:[0-9]+}", staff(http.HandlerFunc(userHandler.Update)).ServeHTTP).Methods("PUT")

	// Customers: the CRM lead pools, staff only
	customersAPI := r.PathPrefix("/api/customers").Subrouter()
	customersAPI.Use(authMiddleware.Identify)
	customersAPI.Use(staff)
	customersAPI.HandleFunc("", customerHandler.List).Methods("GET")
	customersAPI.HandleFunc("", customerHandler.Create).Methods("POST")
	customersAPI.HandleFunc("/batch", customerHandler.CreateBatch).Methods("POST")
	customersAPI.HandleFunc("/{id:[0-9]+}", customerHandler.Get).Methods("GET")
	customersAPI.HandleFunc("/{id:[0-9]+}", customerHandler.Update).Methods("PUT")
	customersAPI.HandleFunc("/{id:[0-9]+}/journals", customerHandler.Journals).Methods("GET")

	// Sea moves and journals
	seasAPI := r.PathPrefix("/api/customer_seas").Subrouter()
	seasAPI.Use(authMiddleware.Identify)
	seasAPI.Use(staff)
	seasAPI.HandleFunc("/allot", authMiddleware.RequireAdmin(http.HandlerFunc(customerHandler.Allot)).ServeHTTP).Methods("POST")
	seasAPI.HandleFunc("/back", customerHandler.Back).Methods("POST")
	seasAPI.HandleFunc("/del", authMiddleware.RequireAdmin(http.HandlerFunc(customerHandler.Del)).ServeHTTP).Methods("POST")

	journalsAPI := r.PathPrefix("/api/customer_journals").Subrouter()
	journalsAPI.Use(authMiddleware.Identify)
	journalsAPI.Use(staff)
	journalsAPI.HandleFunc("", customerHandler.AddJournal).Methods("POST")
	journalsAPI.HandleFunc("/{id:[0-9]+}", customerHandler.UpdateJournal).Methods("PUT")

	// Attachment uploads, staff only
	uploadsAPI := r.PathPrefix("/api/uploads").Subrouter()
	uploadsAPI.Use(authMiddleware.Identify)
	uploadsAPI.Use(staff)
	uploadsAPI.HandleFunc("", uploadHandler.Upload).Methods("POST")

	// Health endpoints (no auth required - for probes)
	r.HandleFunc("/health", healthHandler.Basic).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.Detailed).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
