package redis

import "fmt"

const ns = "tourdash:v1"

func KeySession(id string) string {
	return fmt.Sprintf("%s:session:%s", ns, id)
}

func KeyLocation(clientID string) string {
	return fmt.Sprintf("%s:client:%s:location", ns, clientID)
}

func KeyTouristType(clientID string) string {
	return fmt.Sprintf("%s:client:%s:tourist_type", ns, clientID)
}

func KeyAlertsFeed() string {
	return ns + ":alerts:feed"
}

func KeyAlertRules() string {
	return ns + ":alerts:rules"
}

func KeyDashboardStats() string {
	return ns + ":dashboard:stats"
}

func KeyFootfallCities() string {
	return ns + ":footfall:cities"
}

func KeyIdemTicket(idemKey string) string {
	return fmt.Sprintf("%s:idem:tickets:%s", ns, idemKey)
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func ChannelAlertsChanged() string {
	return ns + ":alerts:changed"
}
