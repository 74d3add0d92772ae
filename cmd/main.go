// cmd/main.go
package main

import (
	"go-card-ledger/app"
)

// @title           Card Ledger API
// @version         1.0
// @description     A card-keyed bank-account ledger with fee accounting.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
