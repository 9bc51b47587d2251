package models

// Record store column headers, in storage order.
const (
	ColumnClientName       = "Client Name"
	ColumnRiskProfile      = "Risk Profile"
	ColumnRecommendedFunds = "Recommended Funds"
)

// Columns is the header row of the record store.
var Columns = []string{ColumnClientName, ColumnRiskProfile, ColumnRecommendedFunds}

// Submission is one processed form post. It is never mutated after creation.
type Submission struct {
	ClientName  string      `json:"client_name"`
	RiskProfile RiskProfile `json:"risk_profile"`
	Funds       FundList    `json:"funds"`
}

// NewSubmission builds a submission holding its own copy of funds.
func NewSubmission(clientName string, profile RiskProfile, funds FundList) Submission {
	return Submission{
		ClientName:  clientName,
		RiskProfile: profile,
		Funds:       funds.Clone(),
	}
}

// FundsJoined returns the recommended funds as stored in the record store.
func (s Submission) FundsJoined() string {
	return s.Funds.Joined()
}

// Row returns the submission serialized as record store columns.
func (s Submission) Row() []string {
	return []string{s.ClientName, string(s.RiskProfile), s.FundsJoined()}
}
