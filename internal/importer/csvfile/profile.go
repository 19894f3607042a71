package csvfile

import "strings"

// Profile describes the header names of one CSV layout. UserProfileCol is
// optional; every other column must be present for the profile to match.
type Profile struct {
	Name           string
	DateCol        string
	AmountCol      string
	CategoryCol    string
	StatusCol      string
	UserIDCol      string
	UserProfileCol string
}

func (p Profile) requiredCols() []string {
	return []string{p.DateCol, p.AmountCol, p.CategoryCol, p.StatusCol, p.UserIDCol}
}

// profiles are tried in order against every row until one matches.
var profiles = []Profile{
	{
		Name:           "snake",
		DateCol:        "date",
		AmountCol:      "amount",
		CategoryCol:    "category",
		StatusCol:      "status",
		UserIDCol:      "user_id",
		UserProfileCol: "user_profile",
	},
	{
		Name:           "camel",
		DateCol:        "date",
		AmountCol:      "amount",
		CategoryCol:    "category",
		StatusCol:      "status",
		UserIDCol:      "userid",
		UserProfileCol: "userprofile",
	},
	{
		Name:           "title",
		DateCol:        "date",
		AmountCol:      "amount",
		CategoryCol:    "category",
		StatusCol:      "status",
		UserIDCol:      "user id",
		UserProfileCol: "user profile",
	},
}

// headerKey folds a header cell so "User_ID", " user_id " and "USER_ID" match.
func headerKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
