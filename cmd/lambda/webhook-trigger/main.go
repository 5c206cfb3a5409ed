// Webhook Trigger Lambda entry point
package main

import (
	"github.com/aws/aws-lambda-go/lambda"

	"engage-matching-engine/internal/handlers"
	"engage-matching-engine/internal/utils"
)

func main() {
	// Initialize logger
	_ = utils.InitLogger("info")
	defer utils.Sync()

	// Create handler
	handler := handlers.NewWebhookTriggerHandler()

	// Start Lambda
	lambda.Start(handler.Handle)
}
