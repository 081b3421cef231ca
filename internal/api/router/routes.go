package router

import (
	"github.com/gofiber/fiber/v3"
)

// Trong Fiber v3 middleware truyền trực tiếp vào router.Get(path, mw, handler) không được gọi.
// Luôn đăng ký qua RegisterRouteWithMiddleware (group + .Use()).

// RoutePrefix chứa các prefix cơ bản cho API
type RoutePrefix struct {
	Base string // Prefix cơ bản (/api)
}

// NewRoutePrefix tạo RoutePrefix với giá trị mặc định
func NewRoutePrefix() RoutePrefix {
	return RoutePrefix{Base: "/api"}
}

// Router giữ app để domain router đăng ký route
type Router struct {
	app *fiber.App
}

// NewRouter tạo mới một instance của Router
func NewRouter(app *fiber.App) *Router {
	return &Router{app: app}
}

// App trả về fiber app gốc
func (r *Router) App() *fiber.App {
	return r.app
}

// RegisterRouteWithMiddleware đăng ký route với middleware sử dụng .Use() trên group prefix.
//
// Ví dụ:
//
//	RegisterRouteWithMiddleware(api, "/reports", "GET", "/sales/regions", []fiber.Handler{mw}, handler)
func RegisterRouteWithMiddleware(router fiber.Router, prefix string, method string, path string, middlewares []fiber.Handler, handler fiber.Handler) {
	routeGroup := router.Group(prefix)
	for _, mw := range middlewares {
		routeGroup.Use(mw)
	}

	switch method {
	case "GET":
		routeGroup.Get(path, handler)
	case "POST":
		routeGroup.Post(path, handler)
	case "PUT":
		routeGroup.Put(path, handler)
	case "DELETE":
		routeGroup.Delete(path, handler)
	}
}

// RegisterFunc là hàm đăng ký route của một domain (do domain/router export).
type RegisterFunc func(api fiber.Router, r *Router) error

// SetupRoutes thiết lập tất cả các route dưới prefix /api.
// Caller truyền lần lượt Register của từng domain để tránh import cycle.
func SetupRoutes(app *fiber.App, regs ...RegisterFunc) error {
	prefix := NewRoutePrefix()
	api := app.Group(prefix.Base)
	r := NewRouter(app)
	for _, reg := range regs {
		if err := reg(api, r); err != nil {
			return err
		}
	}
	return nil
}
