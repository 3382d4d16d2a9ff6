package pages

import (
	"strconv"
)

// TransactionFilter echoes the active filter back into the list page form
type TransactionFilter struct {
	Query      string
	Type       string
	AccountID  int64
	CategoryID int64
}

const (
	noneLabel      = "ندارد"
	listDateLayout = "2006-01-02 15:04"
)

func orNone(name string) string {
	if name == "" {
		return noneLabel
	}
	return name
}

// idValue is the option value for id; zero selects "all"
func idValue(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func deletePath(kind string, id int64) string {
	return "/delete_" + kind + "/" + strconv.FormatInt(id, 10)
}
