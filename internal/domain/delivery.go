package domain

// DeliveryResult is the per-contact outcome of one dispatch. Not persisted.
type DeliveryResult struct {
	Name      string `json:"name"`
	EmailSent bool   `json:"email_sent"`
	SMSSent   bool   `json:"sms_sent"`

	EmailAttempted bool `json:"-"`
	SMSAttempted   bool `json:"-"`
}

type DispatchResult struct {
	Alert   Alert
	Results []DeliveryResult
}

// Delivered counts successful channel sends across all contacts.
func (r *DispatchResult) Delivered() int {
	n := 0
	for _, res := range r.Results {
		if res.EmailSent {
			n++
		}
		if res.SMSSent {
			n++
		}
	}
	return n
}

// Failed counts attempted channel sends that did not succeed.
func (r *DispatchResult) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.EmailAttempted && !res.EmailSent {
			n++
		}
		if res.SMSAttempted && !res.SMSSent {
			n++
		}
	}
	return n
}

type SendAlertResponse struct {
	Success         bool             `json:"success"`
	Message         string           `json:"message"`
	AlertID         int64            `json:"alert_id"`
	Alert           Alert            `json:"alert"`
	DeliveryResults []DeliveryResult `json:"delivery_results"`
	Delivered       int              `json:"delivered"`
	Failed          int              `json:"failed"`
}
