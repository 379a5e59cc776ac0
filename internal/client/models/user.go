package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ID is an opaque user identifier. Older directory blobs stored numeric ids,
// so it decodes from a JSON number or string and always encodes as a string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// UserRecord is one registered account. Password is only populated in the
// directory copy; session-facing records are redacted.
type UserRecord struct {
	ID                ID     `json:"id"`
	Name              string `json:"name"`
	Email             string `json:"email"`
	Password          string `json:"password,omitempty"`
	DateOfBirth       string `json:"dateOfBirth,omitempty"`
	ProfileCompletion int    `json:"profileCompletion"`

	Title      string `json:"title,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Skills     string `json:"skills,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Location   string `json:"location,omitempty"`
	LinkedIn   string `json:"linkedin,omitempty"`
	GitHub     string `json:"github,omitempty"`
	Education  string `json:"education,omitempty"`
	Experience string `json:"experience,omitempty"`

	Resume          bool   `json:"resume,omitempty"`
	ProfileImage    bool   `json:"profileImage,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// Redacted returns a copy of u without the password.
func (u UserRecord) Redacted() UserRecord {
	u.Password = ""
	return u
}

// Validate checks the shape of a record decoded from storage.
func (u *UserRecord) Validate() error {
	if strings.TrimSpace(string(u.ID)) == "" {
		return fmt.Errorf("user record: empty id")
	}
	if strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("user record %s: empty email", u.ID)
	}
	return nil
}

// DecodeUser parses and validates a single record.
func DecodeUser(data []byte) (*UserRecord, error) {
	var u UserRecord
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, err
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return &u, nil
}

// DecodeDirectory parses and validates a directory blob. Any invalid entry
// rejects the whole blob.
func DecodeDirectory(data []byte) ([]UserRecord, error) {
	var users []UserRecord
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	if users == nil {
		return nil, fmt.Errorf("directory: not an array")
	}
	for i := range users {
		if err := users[i].Validate(); err != nil {
			return nil, fmt.Errorf("directory entry %d: %w", i, err)
		}
	}
	return users, nil
}
