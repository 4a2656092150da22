// @title           Phone Admin API
// @version         1.0
// @description     Administrative backend: users, notifications, Binance Pay verification, phone registry proxy.
// @host            localhost:4000
// @BasePath        /api/v1

package main

import "phoneadmin_backend/internal/app"

func main() {
	app.Run()
}
