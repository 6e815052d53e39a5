package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/greenharvest/shop/internal/handlers"
)

type Deps struct {
	Auth     *handlers.AuthMiddleware
	AuthH    *handlers.AuthHandler
	Products *handlers.ProductHandler
	Carts    *handlers.CartHandler
	Orders   *handlers.OrderHandler
	Wishlist *handlers.WishlistHandler
	Search   *handlers.SearchHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")

	api.POST("/auth/register", d.AuthH.Register)
	api.POST("/auth/login", d.AuthH.Login)
	api.GET("/auth/me", d.AuthH.Me, d.Auth.RequireUser)
	api.PUT("/auth/update-profile", d.AuthH.UpdateProfile, d.Auth.RequireUser)

	api.GET("/products", d.Products.GetProducts)
	api.GET("/products/category/:category", d.Products.GetProductsByCategory)
	api.GET("/products/:id", d.Products.GetProduct)
	api.POST("/products", d.Products.CreateProduct, d.Auth.RequireAdmin)
	api.PUT("/products/:id", d.Products.UpdateProduct, d.Auth.RequireAdmin)
	api.DELETE("/products/:id", d.Products.DeleteProduct, d.Auth.RequireAdmin)
	api.PATCH("/products/:id/stock", d.Products.Restock, d.Auth.RequireAdmin)

	if d.Search != nil && d.Search.ES != nil {
		api.GET("/search", d.Search.Search)
	}

	cart := api.Group("/cart", d.Auth.RequireUser)
	cart.GET("", d.Carts.GetCart)
	cart.POST("/add", d.Carts.AddToCart)
	cart.PUT("/update", d.Carts.UpdateCartItem)
	cart.DELETE("/remove/:productId", d.Carts.RemoveFromCart)
	cart.POST("/apply-coupon", d.Carts.ApplyCoupon)
	cart.DELETE("/remove-coupon", d.Carts.RemoveCoupon)
	cart.DELETE("/clear", d.Carts.ClearCart)

	orders := api.Group("/orders", d.Auth.RequireUser)
	orders.GET("/admin/all", d.Orders.GetAllOrders, d.Auth.RequireAdmin)
	orders.POST("", d.Orders.CreateOrder)
	orders.GET("", d.Orders.GetOrders)
	orders.GET("/:id", d.Orders.GetOrder)
	orders.PUT("/:id/cancel", d.Orders.CancelOrder)
	orders.PUT("/:id/status", d.Orders.UpdateOrderStatus, d.Auth.RequireAdmin)

	wishlist := api.Group("/wishlist", d.Auth.RequireUser)
	wishlist.GET("", d.Wishlist.GetWishlist)
	wishlist.POST("/add", d.Wishlist.AddToWishlist)
	wishlist.DELETE("/remove/:productId", d.Wishlist.RemoveFromWishlist)
	wishlist.DELETE("/clear", d.Wishlist.ClearWishlist)
}
