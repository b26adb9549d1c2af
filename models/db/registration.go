package dbmodels

// IntegrationRegistration holds the workforce-integration record issued
// when the connector is registered with the scheduler platform.
// PassthroughValue is compared against the X-MS-WFMPassthrough header and
// SharedSecret is the symmetric key for the webhook payload envelope.
type IntegrationRegistration struct {
	BaseModel
	TeamID           string `json:"team_id" gorm:"index"`
	IntegrationID    string `json:"integration_id"`
	PassthroughValue string `json:"passthrough_value"`
	SharedSecret     string `json:"-"`
	WfmEndpoint      string `json:"wfm_endpoint"`
	AdminObjectID    string `json:"admin_object_id"`
}
