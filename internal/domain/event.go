package domain

// EventName identifies one entry of the fixed host-facing event vocabulary.
type EventName string

const (
	EventLoginSuccess         EventName = "login_success"
	EventLogoutSuccess        EventName = "logout_success"
	EventAdLoaded             EventName = "ad_loaded"
	EventAdFailed             EventName = "ad_failed"
	EventAdClosed             EventName = "ad_closed"
	EventRewardEarned         EventName = "reward_earned"
	EventBillingConnected     EventName = "billing_connected"
	EventBillingError         EventName = "billing_error"
	EventBillingDisconnected  EventName = "billing_disconnected"
	EventPurchaseUpdated      EventName = "purchase_updated"
	EventPurchaseConsumed     EventName = "purchase_consumed"
	EventPurchaseAcknowledged EventName = "purchase_acknowledged"
	EventPurchasesRestored    EventName = "purchases_restored"
)

// Event is delivered synchronously to registered listeners and never
// persisted. Payload shape depends on Name: string descriptions for the
// error events, Reward for reward_earned, []Product for billing_connected,
// PurchaseRecord for the purchase events, nil otherwise.
type Event struct {
	Name    EventName
	Payload any
}
