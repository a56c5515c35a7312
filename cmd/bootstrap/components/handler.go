package components

import (
	"gym-booking/internal/handler"
	"gym-booking/internal/handler/api"
	"gym-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewAdminHandler,
		middleware.NewAuthMiddleware,
		func(b *api.BookingHandler, a *api.AdminHandler) handler.Handlers {
			return handler.Handlers{Booking: b, Admin: a}
		},
	),
	fx.Invoke(handler.NewRouter),
)
