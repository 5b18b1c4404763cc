package mongo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/userdesk/accounts-api/internal/core/admin"
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

const (
	collectionUsers = "users"
	opTimeout       = 5 * time.Second

	indexUsername = "uniq_username"
	indexEmail    = "uniq_email"
)

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Username     string             `bson:"username"`
	Email        string             `bson:"email"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	PasswordHash string             `bson:"password_hash"`
	IsStaff      bool               `bson:"is_staff"`
	IsSuperuser  bool               `bson:"is_superuser"`
	IsActive     bool               `bson:"is_active"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toDocument(u *domain.User) mongoUser {
	return mongoUser{
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		PasswordHash: u.PasswordHash,
		IsStaff:      u.IsStaff,
		IsSuperuser:  u.IsSuperuser,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           m.ID.Hex(),
		Username:     m.Username,
		Email:        m.Email,
		FirstName:    m.FirstName,
		LastName:     m.LastName,
		PasswordHash: m.PasswordHash,
		IsStaff:      m.IsStaff,
		IsSuperuser:  m.IsSuperuser,
		IsActive:     m.IsActive,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

// Create inserts a new account. Unique index violations are reported as
// domain.ErrUsernameTaken or domain.ErrEmailTaken.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	doc := toDocument(user)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, bson.M{"username": username})
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email})
}

// Update applies a partial change set and returns the stored document.
// created_at is never part of the update document.
func (r *UserRepository) Update(ctx context.Context, id string, changes ports.UserChanges) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": buildUpdateSet(changes)}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if dup := duplicateKeyError(err); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of accounts matching filter and the total match count.
func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	query := buildListFilter(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	skip, ok := pageSkip(filter.Page, filter.Limit)
	if !ok {
		return []*domain.User{}, total, nil
	}
	opts := options.Find().
		SetSort(buildSort(filter.Ordering)).
		SetSkip(skip).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoUser
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode users: %w", err)
	}

	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toDomain()
	}
	return users, total, nil
}

// pageSkip returns the number of documents before page. ok is false when the
// offset does not fit in an int64, so the page is necessarily empty.
func pageSkip(page, limit int) (skip int64, ok bool) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		return 0, true
	}
	if int64(page-1) > math.MaxInt64/int64(limit) {
		return 0, false
	}
	return int64(page-1) * int64(limit), true
}

// EnsureIndexes creates the unique identity indexes and the admin sort index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexUsername)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetName(indexEmail)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var doc mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// duplicateKeyError maps a unique index violation to the matching domain error.
// Returns nil when err is not a duplicate key error.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, indexEmail):
		return domain.ErrEmailTaken
	case strings.Contains(msg, indexUsername):
		return domain.ErrUsernameTaken
	default:
		return fmt.Errorf("%w: %v", domain.ErrUsernameTaken, err)
	}
}

func buildListFilter(f ports.ListUsersFilter) bson.M {
	query := bson.M{}

	if f.IsStaff != nil {
		query[admin.FieldIsStaff] = *f.IsStaff
	}
	if f.IsSuperuser != nil {
		query[admin.FieldIsSuperuser] = *f.IsSuperuser
	}
	if f.IsActive != nil {
		query[admin.FieldIsActive] = *f.IsActive
	}

	if !f.CreatedFrom.IsZero() || !f.CreatedTo.IsZero() {
		created := bson.M{}
		if !f.CreatedFrom.IsZero() {
			created["$gte"] = f.CreatedFrom.UTC()
		}
		if !f.CreatedTo.IsZero() {
			created["$lt"] = f.CreatedTo.UTC()
		}
		query[admin.FieldCreatedAt] = created
	}

	if term := strings.TrimSpace(f.Search); term != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
		or := make(bson.A, 0, len(admin.UserAdmin.SearchFields))
		for _, field := range admin.UserAdmin.SearchFields {
			or = append(or, bson.M{field: pattern})
		}
		query["$or"] = or
	}

	return query
}

func buildSort(o admin.Ordering) bson.D {
	field := o.Field
	if field == "" {
		o = admin.UserAdmin.DefaultOrdering()
		field = o.Field
	}
	if field == admin.FieldID {
		field = "_id"
	}
	dir := 1
	if o.Desc {
		dir = -1
	}
	sort := bson.D{{Key: field, Value: dir}}
	if field != "_id" {
		// stable pagination when the primary key ties
		sort = append(sort, bson.E{Key: "_id", Value: dir})
	}
	return sort
}

func buildUpdateSet(c ports.UserChanges) bson.M {
	set := bson.M{admin.FieldUpdatedAt: c.UpdatedAt.UTC()}
	if c.Email != nil {
		set[admin.FieldEmail] = *c.Email
	}
	if c.FirstName != nil {
		set[admin.FieldFirstName] = *c.FirstName
	}
	if c.LastName != nil {
		set[admin.FieldLastName] = *c.LastName
	}
	if c.IsActive != nil {
		set[admin.FieldIsActive] = *c.IsActive
	}
	if c.IsStaff != nil {
		set[admin.FieldIsStaff] = *c.IsStaff
	}
	if c.IsSuperuser != nil {
		set[admin.FieldIsSuperuser] = *c.IsSuperuser
	}
	return set
}
