package main

import "contactbook/internal/app"

// @title           Contactbook API
// @version         1.0
// @description     Contact management service with JWT authentication.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization

// @host      localhost:8080
// @BasePath  /
func main() {
	app.Run()
}
