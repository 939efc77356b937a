package document

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
)

type Type string

const (
	TypeContract    Type = "CONTRACT"
	TypeIDCard      Type = "ID_CARD"
	TypeCertificate Type = "CERTIFICATE"
	TypePayslip     Type = "PAYSLIP"
	TypeOther       Type = "OTHER"
)

var ValidTypes = []string{
	string(TypeContract),
	string(TypeIDCard),
	string(TypeCertificate),
	string(TypePayslip),
	string(TypeOther),
}

type Document struct {
	ID           string
	EmployeeID   string
	Title        string
	DocumentType Type
	FileName     string
	FilePath     string
	ContentType  string
	SizeBytes    int64
	UploadedBy   *string
	CreatedAt    time.Time

	// DTO / Join
	Employee *employee.Summary
}
