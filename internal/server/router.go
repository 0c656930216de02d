package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"biosen/internal/auth"
	"biosen/internal/bundle"
	"biosen/internal/category"
	"biosen/internal/client"
	"biosen/internal/dashboard"
	"biosen/internal/driver"
	"biosen/internal/employee"
	"biosen/internal/expense"
	"biosen/internal/intake"
	"biosen/internal/invoice"
	"biosen/internal/legacy"
	"biosen/internal/metrics"
	ordercontroller "biosen/internal/order/controller"
	"biosen/internal/product"
	"biosen/internal/shop"
	"biosen/internal/user"
)

// Controllers groups everything the router mounts.
type Controllers struct {
	Auth      *auth.Module
	User      *user.Controller
	Shop      *shop.Controller
	Category  *category.Controller
	Product   *product.Controller
	Employee  *employee.Controller
	Driver    *driver.Controller
	Client    *client.Controller
	Order     *ordercontroller.OrderController
	Invoice   *invoice.Controller
	Expense   *expense.Controller
	Bundle    *bundle.Controller
	Intake    *intake.Controller
	Dashboard *dashboard.Controller

	// Legacy is nil when no legacy database is configured.
	Legacy *legacy.Handler

	// UploadDir is served under /storage/.
	UploadDir string
}

func NewRouter(c Controllers, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", c.Auth.Controller.Login)
			r.Post("/forgot-password", c.Auth.Controller.ForgotPassword)
			r.Post("/reset-password", c.Auth.Controller.ResetPassword)

			r.Group(func(r chi.Router) {
				r.Use(c.Auth.Middleware.Authenticate)
				r.Post("/logout", c.Auth.Controller.Logout)
				r.Get("/me", c.Auth.Controller.Me)
				r.Post("/change-password", c.Auth.Controller.ChangePassword)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(c.Auth.Middleware.Authenticate)

			// Intake admits clerks as well as the back office.
			r.Route("/intake-orders", func(r chi.Router) {
				r.Use(c.Auth.Middleware.RequireRoles("admin", "manager", "clerk"))
				r.Get("/", c.Intake.List)
				r.Post("/", c.Intake.Create)
				r.Get("/stats", c.Intake.Stats)
				r.Get("/{intakeId}", c.Intake.Show)
				r.Put("/{intakeId}", c.Intake.Update)
				r.Delete("/{intakeId}", c.Intake.Delete)
			})

			r.Group(func(r chi.Router) {
				r.Use(c.Auth.Middleware.RequireBackOffice)

				r.Route("/users", func(r chi.Router) {
					r.Use(c.Auth.Middleware.RequireAdmin)
					r.Get("/", c.User.List)
					r.Post("/", c.User.Create)
					r.Get("/{userId}", c.User.Show)
					r.Put("/{userId}", c.User.Update)
					r.Patch("/{userId}/role", c.User.ChangeRole)
					r.Patch("/{userId}/toggle-active", c.User.ToggleActive)
					r.Delete("/{userId}", c.User.Delete)
				})

				r.Route("/shops", func(r chi.Router) {
					r.Use(c.Auth.Middleware.RequireAdmin)
					r.Get("/", c.Shop.List)
					r.Post("/", c.Shop.Create)
					r.Get("/{shopId}", c.Shop.Show)
					r.Put("/{shopId}", c.Shop.Update)
					r.Post("/{shopId}/toggle-active", c.Shop.ToggleStatus)
					r.Delete("/{shopId}", c.Shop.Delete)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", c.Category.List)
					r.Post("/", c.Category.Create)
					r.Get("/{categoryId}", c.Category.Show)
					r.Put("/{categoryId}", c.Category.Update)
					r.Delete("/{categoryId}", c.Category.Delete)
				})

				r.Route("/products", func(r chi.Router) {
					r.Get("/", c.Product.List)
					r.Post("/", c.Product.Create)
					r.Get("/low-stock", c.Product.LowStock)
					r.Get("/{productId}", c.Product.Show)
					r.Put("/{productId}", c.Product.Update)
					r.Delete("/{productId}", c.Product.Delete)
				})

				r.Route("/employees", func(r chi.Router) {
					r.Get("/", c.Employee.List)
					r.Post("/", c.Employee.Create)
					r.Get("/{employeeId}", c.Employee.Show)
					r.Put("/{employeeId}", c.Employee.Update)
					r.Delete("/{employeeId}", c.Employee.Delete)
				})

				r.Route("/drivers", func(r chi.Router) {
					r.Get("/", c.Driver.List)
					r.Post("/", c.Driver.Create)
					r.Get("/available", c.Driver.Available)
					r.Get("/{driverId}", c.Driver.Show)
					r.Put("/{driverId}", c.Driver.Update)
					r.Post("/{driverId}/toggle-available", c.Driver.ToggleAvailable)
					r.Delete("/{driverId}", c.Driver.Delete)
				})

				r.Route("/clients", func(r chi.Router) {
					r.Get("/", c.Client.List)
					r.Post("/", c.Client.Create)
					r.Get("/{clientId}", c.Client.Show)
					r.Put("/{clientId}", c.Client.Update)
					r.Delete("/{clientId}", c.Client.Delete)
				})

				r.Route("/orders", func(r chi.Router) {
					r.Get("/", c.Order.List)
					r.Post("/", c.Order.Create)
					r.Get("/{orderId}", c.Order.Show)
					r.Put("/{orderId}", c.Order.Update)
					r.Delete("/{orderId}", c.Order.Delete)
					r.Post("/{orderId}/validate", c.Order.Validate)
					r.Post("/{orderId}/cancel", c.Order.Cancel)
				})

				r.Route("/invoices", func(r chi.Router) {
					r.Get("/", c.Invoice.List)
					r.Get("/{invoiceId}", c.Invoice.Show)
				})

				r.Route("/expenses", func(r chi.Router) {
					r.Get("/", c.Expense.List)
					r.Post("/", c.Expense.Create)
					r.Get("/{expenseId}", c.Expense.Show)
					r.Put("/{expenseId}", c.Expense.Update)
					r.Delete("/{expenseId}", c.Expense.Delete)
				})

				r.Route("/bundles", func(r chi.Router) {
					r.Get("/", c.Bundle.List)
					r.Post("/", c.Bundle.Create)
					r.Get("/{bundleId}", c.Bundle.Show)
					r.Put("/{bundleId}", c.Bundle.Update)
					r.Delete("/{bundleId}", c.Bundle.Delete)
				})

				r.Route("/dashboard", func(r chi.Router) {
					r.Get("/stats", c.Dashboard.Stats)
					r.Get("/top-products", c.Dashboard.TopProducts)
					r.Get("/top-employees", c.Dashboard.TopEmployees)
					r.Get("/top-drivers", c.Dashboard.TopDrivers)
					r.Get("/orders-week", c.Dashboard.OrdersWeek)
					r.Get("/orders-month", c.Dashboard.OrdersMonth)
					r.Get("/sales-evolution", c.Dashboard.SalesEvolution)
					r.Get("/low-stock", c.Dashboard.LowStock)
					r.Get("/employee-stats", c.Dashboard.EmployeeStats)
				})
			})
		})
	})

	if c.UploadDir != "" {
		fileServer := http.StripPrefix("/storage/", http.FileServer(http.Dir(c.UploadDir)))
		r.Get("/storage/*", fileServer.ServeHTTP)
	}

	if c.Legacy != nil {
		r.Get("/historique", c.Legacy.ServeHTTP)
		logger.Info("legacy history viewer mounted at /historique")
	}

	return r
}
