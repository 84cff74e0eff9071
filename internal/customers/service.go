package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/config"
	"github.com/webshopkit/webshop-backend/pkg/db"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	"github.com/webshopkit/webshop-backend/pkg/enums"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
	"github.com/webshopkit/webshop-backend/pkg/pagination"
	"github.com/webshopkit/webshop-backend/pkg/security"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CustomerPage is one cursor page of customers.
type CustomerPage struct {
	Customers  []CustomerDTO `json:"customers"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// Service exposes customer account operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error)
	GetByID(ctx context.Context, access auth.Access, id uuid.UUID) (*CustomerDTO, error)
	GetByEmail(ctx context.Context, access auth.Access, email string) (*CustomerDTO, error)
	List(ctx context.Context, access auth.Access, params pagination.Params) (*CustomerPage, error)
	SearchByLastName(ctx context.Context, access auth.Access, prefix string) ([]CustomerDTO, error)
	Update(ctx context.Context, access auth.Access, id uuid.UUID, input UpdateInput) (*CustomerDTO, error)
	Delete(ctx context.Context, access auth.Access, id uuid.UUID) error
	UploadFile(ctx context.Context, access auth.Access, id uuid.UUID, data []byte) (*CustomerFileDTO, error)
	DownloadFile(ctx context.Context, access auth.Access, id uuid.UUID) (*models.CustomerFile, error)
}

// ServiceParams wires the customer service dependencies.
type ServiceParams struct {
	Tx          txRunner
	Repo        CustomerRepository
	PasswordCfg config.PasswordConfig
	Notifier    Notifier
	Now         func() time.Time
}

type service struct {
	tx          txRunner
	repo        CustomerRepository
	passwordCfg config.PasswordConfig
	notifier    Notifier
	now         func() time.Time
}

// NewService builds the customer service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("customer repository required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{
		tx:          params.Tx,
		repo:        params.Repo,
		passwordCfg: params.PasswordCfg,
		notifier:    params.Notifier,
		now:         params.Now,
	}, nil
}

// Register creates a customer together with its address and the default
// customer role. The email is stored lowercased so uniqueness holds
// regardless of the casing the caller typed.
func (s *service) Register(ctx context.Context, input RegisterInput) (*CustomerDTO, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	customer := input.ToModel(hash, s.now().UTC())
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByEmail(ctx, customer.Email); err == nil {
			return pkgerrors.New(pkgerrors.CodeEmailExists, "email is already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
		}
		if err := repo.Create(ctx, customer); err != nil {
			if db.IsUniqueViolation(err, "uq_customers_email_ci") {
				return pkgerrors.New(pkgerrors.CodeEmailExists, "email is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.CustomerRegistered(ctx, customer)
	}
	return ToDTO(customer), nil
}

// GetByID returns the customer; plain customers only see their own record.
func (s *service) GetByID(ctx context.Context, access auth.Access, id uuid.UUID) (*CustomerDTO, error) {
	if !access.CanActFor(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access this customer")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return ToDTO(customer), nil
}

// GetByEmail is a staff lookup.
func (s *service) GetByEmail(ctx context.Context, access auth.Access, email string) (*CustomerDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	customer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return ToDTO(customer), nil
}

// List returns a cursor page of customers for staff.
func (s *service) List(ctx context.Context, access auth.Access, params pagination.Params) (*CustomerPage, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	page := &CustomerPage{Customers: make([]CustomerDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		page.Customers = append(page.Customers, *ToDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return page, nil
}

// SearchByLastName is a staff prefix search.
func (s *service) SearchByLastName(ctx context.Context, access auth.Access, prefix string) ([]CustomerDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if strings.TrimSpace(prefix) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "search prefix is required")
	}
	rows, err := s.repo.FindByLastNamePrefix(ctx, prefix)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search customers")
	}
	out := make([]CustomerDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out, nil
}

// Update applies a partial mutation guarded by the version the caller last
// read. A stale version yields VERSION_CONFLICT when the row moved on and
// CONCURRENTLY_DELETED when it is gone, so clients can react differently.
func (s *service) Update(ctx context.Context, access auth.Access, id uuid.UUID, input UpdateInput) (*CustomerDTO, error) {
	if !access.CanActFor(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify this customer")
	}
	if input.ExpectedVersion < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expected version is required")
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no fields to update")
	}

	var updated *models.Customer
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if email, ok := updates["email"].(string); ok {
			other, err := repo.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
			}
			if err == nil && other.ID != id {
				return pkgerrors.New(pkgerrors.CodeEmailExists, "email is already registered")
			}
		}

		affected, err := repo.UpdateVersioned(ctx, id, input.ExpectedVersion, updates)
		if err != nil {
			if db.IsUniqueViolation(err, "uq_customers_email_ci") {
				return pkgerrors.New(pkgerrors.CodeEmailExists, "email is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
		}
		if affected == 0 {
			return s.classifyGuardFailure(ctx, repo, id, input.ExpectedVersion)
		}

		updated, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload customer")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToDTO(updated), nil
}

// Delete removes the customer and everything it owns except placed orders;
// a customer with order history cannot be deleted.
// Delete is idempotent: a record that is already gone counts as success,
// since absence resolves any delete-vs-delete race on its own.
func (s *service) Delete(ctx context.Context, access auth.Access, id uuid.UUID) error {
	if !access.HasRole(enums.RoleAdmin) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}

	var deleted *models.Customer
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		customer, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
		}

		count, err := repo.CountOrders(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeHasOrders, "customer has placed orders").
				WithDetails(map[string]any{"customer_id": id, "order_count": count})
		}

		if err := repo.DeleteDependents(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dependents")
		}

		if _, err := repo.Delete(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete customer")
		}

		deleted = customer
		return nil
	})
	if err != nil {
		return err
	}

	if s.notifier != nil && deleted != nil {
		s.notifier.CustomerDeleted(ctx, deleted)
	}
	return nil
}

// uploadTypes lists the content types a customer file may carry.
var uploadTypes = []string{"image/jpeg", "image/png", "video/mp4", "audio/wav"}

// UploadFile attaches a file to the customer's account. The content type is
// sniffed from the payload, never taken from the request, and an earlier
// upload is replaced.
func (s *service) UploadFile(ctx context.Context, access auth.Access, id uuid.UUID, data []byte) (*CustomerFileDTO, error) {
	if !access.CanActFor(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot modify this customer")
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file payload is empty")
	}

	detected := mimetype.Detect(data)
	supported := false
	for _, want := range uploadTypes {
		if detected.Is(want) {
			supported = true
			break
		}
	}
	if !supported {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unsupported file type").
			WithDetails(map[string]any{"content_type": detected.String()})
	}

	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	file := &models.CustomerFile{
		CustomerID:  id,
		Filename:    fmt.Sprintf("customer_%s%s", id, detected.Extension()),
		ContentType: detected.String(),
		Bytes:       data,
	}
	if err := s.repo.SaveFile(ctx, file); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store file")
	}
	return ToFileDTO(file), nil
}

// DownloadFile returns the customer's uploaded file with its payload.
func (s *service) DownloadFile(ctx context.Context, access auth.Access, id uuid.UUID) (*models.CustomerFile, error) {
	if !access.CanActFor(id) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot access this customer")
	}
	file, err := s.repo.FindFile(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer has no uploaded file")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load file")
	}
	return file, nil
}

// classifyGuardFailure re-reads after a zero-row versioned write to tell a
// concurrent update apart from a concurrent delete.
func (s *service) classifyGuardFailure(ctx context.Context, repo CustomerRepository, id uuid.UUID, expectedVersion int64) error {
	current, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeConcurrentlyErased, "customer was deleted concurrently")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload customer")
	}
	// the losing caller gets the record as the winner left it, so it can
	// re-read-free rebase or surrender
	return pkgerrors.New(pkgerrors.CodeVersionConflict, "customer was modified concurrently").
		WithDetails(map[string]any{
			"expected_version": expectedVersion,
			"current_version":  current.Version,
			"current":          ToDTO(current),
		})
}

func validateRegisterInput(input *RegisterInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid customer kind")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "last name is required")
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(input.Email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	if len(input.Password) < 8 {
		return pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if !input.TermsAgreed {
		return pkgerrors.New(pkgerrors.CodeValidation, "terms must be agreed")
	}
	if strings.TrimSpace(input.Address.Street) == "" ||
		strings.TrimSpace(input.Address.Zip) == "" ||
		strings.TrimSpace(input.Address.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address is incomplete")
	}

	if input.Kind == enums.CustomerKindBusiness {
		if input.Gender != nil || input.MaritalStatus != nil || len(input.Hobbies) > 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "business customers cannot carry individual attributes")
		}
		return nil
	}
	if input.Gender != nil && !input.Gender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	if input.MaritalStatus != nil && !input.MaritalStatus.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid marital status")
	}
	return nil
}

func buildUpdates(input UpdateInput) (map[string]any, error) {
	updates := map[string]any{}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "last name cannot be empty")
		}
		updates["last_name"] = *input.LastName
	}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		updates["email"] = email
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Discount != nil {
		updates["discount"] = *input.Discount
	}
	if input.Newsletter != nil {
		updates["newsletter"] = *input.Newsletter
	}
	if input.Remarks != nil {
		updates["remarks"] = *input.Remarks
	}
	if input.Gender != nil {
		if !input.Gender.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		updates["gender"] = *input.Gender
	}
	if input.MaritalStatus != nil {
		if !input.MaritalStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid marital status")
		}
		updates["marital_status"] = *input.MaritalStatus
	}
	if input.Hobbies != nil {
		updates["hobbies"] = pq.StringArray(*input.Hobbies)
	}
	return updates, nil
}
