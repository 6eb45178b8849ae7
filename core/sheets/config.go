package sheets

const (
	CredentialsOAuth          = "oauth"
	CredentialsServiceAccount = "service_account"
)

// Config holds configuration for the Google Sheets collaborator.
type Config struct {
	// SpreadsheetID is the id found in the spreadsheet URL.
	SpreadsheetID string `mapstructure:"spreadsheet_id" default:""`
	// Range is the A1 range that holds the table, header row included.
	Range string `mapstructure:"range" default:"Sheet1"`
	// CredentialsFile is the client secret (oauth) or key file (service_account).
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// TokenFile stores the authorized user token for oauth credentials.
	TokenFile string `mapstructure:"token_file" default:"token.json"`
	// CredentialsType selects the credential flow (oauth, service_account).
	CredentialsType string `mapstructure:"credentials_type" default:"oauth"`
	// TimeoutSeconds bounds every request to the Sheets API.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
