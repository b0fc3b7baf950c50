package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rdfz3d/campus-api/internal/core/domain"
)

const accountCollection = "accounts"

// AccountRepository persists accounts in MongoDB. Case-insensitive lookups
// go through the username_lower / lower-cased email fields; phone numbers
// are stored canonical so byte equality suffices.
type AccountRepository struct {
	coll *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{coll: db.Collection(accountCollection)}
}

type accountDoc struct {
	ID             string `bson:"_id"`
	Username       string `bson:"username"`
	UsernameLower  string `bson:"username_lower"`
	Email          string `bson:"email,omitempty"`
	Phone          string `bson:"phone,omitempty"`
	Nickname       string `bson:"nickname,omitempty"`
	HashedPassword string `bson:"hashed_password"`
	IsActive       bool   `bson:"is_active"`
	IsSuperuser    bool   `bson:"is_superuser"`
	IsVerified     bool   `bson:"is_verified"`
	EmailVerified  bool   `bson:"is_email_verified"`
	PhoneVerified  bool   `bson:"is_phone_verified"`
	CreatedAt      int64  `bson:"created_at"`
	UpdatedAt      int64  `bson:"updated_at"`
}

func toAccountDoc(a *domain.Account) accountDoc {
	return accountDoc{
		ID:             a.ID,
		Username:       a.Username,
		UsernameLower:  strings.ToLower(a.Username),
		Email:          strings.ToLower(a.Email),
		Phone:          a.Phone,
		Nickname:       a.Nickname,
		HashedPassword: a.HashedPassword,
		IsActive:       a.IsActive,
		IsSuperuser:    a.IsSuperuser,
		IsVerified:     a.IsVerified,
		EmailVerified:  a.EmailVerified,
		PhoneVerified:  a.PhoneVerified,
		CreatedAt:      a.CreatedAt.Unix(),
		UpdatedAt:      a.UpdatedAt.Unix(),
	}
}

func (d accountDoc) toDomain() *domain.Account {
	return &domain.Account{
		ID:             d.ID,
		Username:       d.Username,
		Email:          d.Email,
		Phone:          d.Phone,
		Nickname:       d.Nickname,
		HashedPassword: d.HashedPassword,
		IsActive:       d.IsActive,
		IsSuperuser:    d.IsSuperuser,
		IsVerified:     d.IsVerified,
		EmailVerified:  d.EmailVerified,
		PhoneVerified:  d.PhoneVerified,
		CreatedAt:      unixToTime(d.CreatedAt),
		UpdatedAt:      unixToTime(d.UpdatedAt),
	}
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"username_lower": strings.ToLower(username)})
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"email": strings.ToLower(email)})
}

func (r *AccountRepository) FindByPhone(ctx context.Context, phone string) (*domain.Account, error) {
	return r.findOne(ctx, bson.M{"phone": phone})
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M) (*domain.Account, error) {
	var doc accountDoc
	if err := r.coll.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return doc.toDomain(), nil
}

// Create inserts the account. A duplicate-key error from the unique indexes
// is translated to the field-naming conflict error, so a registration that
// loses the pre-check race surfaces the same conflict as the pre-check.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := toAccountDoc(account)
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.IdentifierExistsError{Field: conflictField(err, map[string]string{
				"username_unique": "username",
				"email_unique":    "email",
				"phone_unique":    "phone",
			}, "username")}
		}
		return nil, fmt.Errorf("insert account: %w", err)
	}
	return doc.toDomain(), nil
}

// Update applies the non-nil fields of update and returns the new document.
func (r *AccountRepository) Update(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	unset := bson.M{}

	if update.Email != nil {
		if *update.Email == "" {
			unset["email"] = ""
		} else {
			set["email"] = strings.ToLower(*update.Email)
		}
	}
	if update.Phone != nil {
		if *update.Phone == "" {
			unset["phone"] = ""
		} else {
			set["phone"] = *update.Phone
		}
	}
	if update.Nickname != nil {
		set["nickname"] = *update.Nickname
	}
	if update.HashedPassword != nil {
		set["hashed_password"] = *update.HashedPassword
	}
	if update.IsActive != nil {
		set["is_active"] = *update.IsActive
	}
	if update.IsSuperuser != nil {
		set["is_superuser"] = *update.IsSuperuser
	}
	if update.IsVerified != nil {
		set["is_verified"] = *update.IsVerified
	}
	if update.EmailVerified != nil {
		set["is_email_verified"] = *update.EmailVerified
	}
	if update.PhoneVerified != nil {
		set["is_phone_verified"] = *update.PhoneVerified
	}

	mutation := bson.M{"$set": set}
	if len(unset) > 0 {
		mutation["$unset"] = unset
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, mutation)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, &domain.IdentifierExistsError{Field: conflictField(err, map[string]string{
				"email_unique": "email",
				"phone_unique": "phone",
			}, "email")}
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, domain.ErrAccountNotFound
	}
	return r.FindByID(ctx, id)
}

// conflictField maps the violated index name buried in a duplicate-key error
// to its field name; fallback when the name cannot be recovered.
func conflictField(err error, byIndex map[string]string, fallback string) string {
	msg := err.Error()
	for index, field := range byIndex {
		if strings.Contains(msg, index) {
			return field
		}
	}
	return fallback
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
