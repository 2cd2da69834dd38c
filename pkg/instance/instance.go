package instance

import "os"

// ID identifies this process in logs when several replicas run behind the
// same load balancer. Platforms that set VIETCART_INSTANCE_ID (or Heroku's
// DYNO) win; everything else reports as local.
func ID() string {
	if id := os.Getenv("VIETCART_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
