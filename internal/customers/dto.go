package customers

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
)

// AddressInput carries the single shipping address captured at registration.
type AddressInput struct {
	Street      string `validate:"required"`
	HouseNumber string `validate:"required"`
	Zip         string `validate:"required"`
	City        string `validate:"required"`
}

// RegisterInput captures everything needed to create a customer account.
// Gender, MaritalStatus and Hobbies are only meaningful for individual
// customers and are rejected for business ones.
type RegisterInput struct {
	Kind          enums.CustomerKind
	LastName      string
	FirstName     *string
	Email         string
	Password      string
	Category      int
	Newsletter    bool
	TermsAgreed   bool
	Gender        *enums.Gender
	MaritalStatus *enums.MaritalStatus
	Hobbies       []string
	Address       AddressInput
}

// UpdateInput carries a partial customer mutation. Nil fields are left
// untouched. ExpectedVersion is the version the caller last read; the update
// only applies when the row still carries it.
type UpdateInput struct {
	ExpectedVersion int64
	LastName        *string
	FirstName       *string
	Email           *string
	Category        *int
	Discount        *decimal.Decimal
	Newsletter      *bool
	Remarks         *string
	Gender          *enums.Gender
	MaritalStatus   *enums.MaritalStatus
	Hobbies         *[]string
}

// AddressDTO is the outward shape of a customer address.
type AddressDTO struct {
	ID          uuid.UUID `json:"id"`
	Street      string    `json:"street"`
	HouseNumber string    `json:"house_number"`
	Zip         string    `json:"zip"`
	City        string    `json:"city"`
}

// CustomerDTO is the outward shape of a customer; it never exposes the
// password hash.
type CustomerDTO struct {
	ID            uuid.UUID            `json:"id"`
	Kind          enums.CustomerKind   `json:"kind"`
	LastName      string               `json:"last_name"`
	FirstName     *string              `json:"first_name,omitempty"`
	Email         string               `json:"email"`
	Category      int                  `json:"category"`
	Discount      decimal.Decimal      `json:"discount"`
	Revenue       decimal.Decimal      `json:"revenue"`
	Since         *time.Time           `json:"since,omitempty"`
	Newsletter    bool                 `json:"newsletter"`
	Gender        *enums.Gender        `json:"gender,omitempty"`
	MaritalStatus *enums.MaritalStatus `json:"marital_status,omitempty"`
	Hobbies       []string             `json:"hobbies,omitempty"`
	Version       int64                `json:"version"`
	Address       *AddressDTO          `json:"address,omitempty"`
	Roles         []enums.Role         `json:"roles"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// ToDTO maps a customer model to its outward shape.
func ToDTO(customer *models.Customer) *CustomerDTO {
	if customer == nil {
		return nil
	}

	dto := &CustomerDTO{
		ID:            customer.ID,
		Kind:          customer.Kind,
		LastName:      customer.LastName,
		FirstName:     customer.FirstName,
		Email:         customer.Email,
		Category:      customer.Category,
		Discount:      customer.Discount,
		Revenue:       customer.Revenue,
		Since:         customer.Since,
		Newsletter:    customer.Newsletter,
		Gender:        customer.Gender,
		MaritalStatus: customer.MaritalStatus,
		Hobbies:       []string(customer.Hobbies),
		Version:       customer.Version,
		CreatedAt:     customer.CreatedAt,
		UpdatedAt:     customer.UpdatedAt,
	}

	if customer.Address.ID != uuid.Nil {
		dto.Address = &AddressDTO{
			ID:          customer.Address.ID,
			Street:      customer.Address.Street,
			HouseNumber: customer.Address.HouseNumber,
			Zip:         customer.Address.Zip,
			City:        customer.Address.City,
		}
	}

	dto.Roles = make([]enums.Role, 0, len(customer.Roles))
	for _, role := range customer.Roles {
		dto.Roles = append(dto.Roles, role.Role)
	}
	return dto
}

// CustomerFileDTO describes an uploaded file without its payload.
type CustomerFileDTO struct {
	CustomerID  uuid.UUID `json:"customer_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int       `json:"size"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToFileDTO maps an uploaded file to its outward shape.
func ToFileDTO(file *models.CustomerFile) *CustomerFileDTO {
	if file == nil {
		return nil
	}
	return &CustomerFileDTO{
		CustomerID:  file.CustomerID,
		Filename:    file.Filename,
		ContentType: file.ContentType,
		Size:        len(file.Bytes),
		UpdatedAt:   file.UpdatedAt,
	}
}

// ToModel builds the customer model persisted at registration. The password
// hash is supplied by the service, never by callers.
func (in RegisterInput) ToModel(passwordHash string, now time.Time) *models.Customer {
	customer := &models.Customer{
		Kind:          in.Kind,
		LastName:      in.LastName,
		FirstName:     in.FirstName,
		Email:         in.Email,
		Category:      in.Category,
		Discount:      decimal.Zero,
		Revenue:       decimal.Zero,
		Since:         &now,
		Newsletter:    in.Newsletter,
		TermsAgreed:   in.TermsAgreed,
		PasswordHash:  passwordHash,
		Gender:        in.Gender,
		MaritalStatus: in.MaritalStatus,
		Address: models.Address{
			Street:      in.Address.Street,
			HouseNumber: in.Address.HouseNumber,
			Zip:         in.Address.Zip,
			City:        in.Address.City,
		},
		Roles: []models.CustomerRole{{Role: enums.RoleCustomer}},
	}
	if len(in.Hobbies) > 0 {
		customer.Hobbies = pq.StringArray(in.Hobbies)
	}
	return customer
}
