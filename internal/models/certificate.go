package models

import "time"

// VerificationStatus is the certificate verification workflow state.
type VerificationStatus string

const (
	CertificatePending  VerificationStatus = "pending"
	CertificateVerified VerificationStatus = "verified"
	CertificateRejected VerificationStatus = "rejected"
)

// Certificate is a professor credential pending admin verification.
type Certificate struct {
	ID         string             `db:"id" json:"id"`
	UserID     string             `db:"user_id" json:"user_id"`
	Title      string             `db:"title" json:"title"`
	Issuer     string             `db:"issuer" json:"issuer,omitempty"`
	FilePath   string             `db:"file_path" json:"file_path,omitempty"`
	Status     VerificationStatus `db:"status" json:"status"`
	ExpiresAt  *time.Time         `db:"expires_at" json:"expires_at,omitempty"`
	VerifiedAt *time.Time         `db:"verified_at" json:"verified_at,omitempty"`
	VerifiedBy *string            `db:"verified_by" json:"verified_by,omitempty"`
	CreatedAt  time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `db:"updated_at" json:"updated_at"`
}

// CertificateFilter captures filtering criteria for listing certificates.
type CertificateFilter struct {
	UserID    string
	Status    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
