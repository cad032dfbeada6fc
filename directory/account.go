package directory

import (
	"time"

	"github.com/go-ldap/ldap/v3"
)

// Account is the attribute view of a user record.
type Account struct {
	UID         string `json:"uid"`
	CommonName  string `json:"cn"`
	GivenName   string `json:"gn,omitempty"`
	Surname     string `json:"sn,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
	Email       string `json:"email,omitempty"`
	Description string `json:"description,omitempty"`

	Created  *time.Time `json:"created,omitempty"`
	Modified *time.Time `json:"modified,omitempty"`

	DN       string `json:"dn"`       // distinguishedName of the entry
	Location string `json:"location"` // canonical node location
}

// Name return commonName or fullname or uid
func (u *Account) Name() string {
	if u.CommonName != "" {
		return u.CommonName
	}
	if u.Surname != "" && u.GivenName != "" {
		return u.GivenName + " " + u.Surname
	}
	return u.UID
}

func entryToAccount(entry *ldap.Entry, location string) (u *Account) {
	u = &Account{
		DN:          entry.DN,
		UID:         entry.GetAttributeValue("uid"),
		CommonName:  entry.GetAttributeValue("cn"),
		GivenName:   entry.GetAttributeValue("gn"),
		Surname:     entry.GetAttributeValue("sn"),
		Nickname:    entry.GetAttributeValue("displayName"),
		Email:       entry.GetAttributeValue("mail"),
		Description: entry.GetAttributeValue("description"),
		Location:    location,
	}

	if str := entry.GetAttributeValue("createTimestamp"); str != "" {
		if t, err := time.Parse(TimeLayout, str); err == nil {
			u.Created = &t
		} else {
			logger().Infow("invalid time", "str", str, "err", err)
		}
	}
	if str := entry.GetAttributeValue("modifyTimestamp"); str != "" {
		if t, err := time.Parse(TimeLayout, str); err == nil {
			u.Modified = &t
		}
	}
	return
}
