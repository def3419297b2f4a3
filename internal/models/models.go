// Package models holds the persisted domain records.
package models

import "time"

// User is a registered LINE user profile.
type User struct {
	ID          int64      `json:"id"`
	LineUUID    string     `json:"lineUuid"`
	Title       string     `json:"title,omitempty"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	Gender      string     `json:"gender,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phoneNumber"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// OTPVerification is one issued phone verification challenge.
type OTPVerification struct {
	ID          int64     `json:"id"`
	PhoneNumber string    `json:"phoneNumber"`
	Token       string    `json:"-"`
	RefCode     string    `json:"referenceCode"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Verified    bool      `json:"verified"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DownloadStat is the aggregate download count for one template.
type DownloadStat struct {
	TemplateID    string `json:"templateId"`
	DownloadCount int64  `json:"downloadCount"`
}
