package users

import (
	"context"

	"github.com/UmidYul/21-IDUM/internal/store"
	"github.com/UmidYul/21-IDUM/model"
)

// UserRepository looks up and persists user records inside the shared
// document. A miss is reported as ErrUserNotFound, never invented into
// anything stronger; callers decide what a miss means.
type UserRepository struct {
	db *store.DocumentStore
}

func NewUserRepository(db *store.DocumentStore) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var found *model.User
	err := r.db.View(func(doc *model.Document) error {
		for i := range doc.Users {
			if doc.Users[i].Username == username {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var found *model.User
	err := r.db.View(func(doc *model.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				u := doc.Users[i]
				found = &u
				return nil
			}
		}
		return ErrUserNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := r.db.View(func(doc *model.Document) error {
		out = append(out, doc.Users...)
		return nil
	})
	return out, err
}

// Save replaces the stored record matching user.ID and persists the
// document. Saving an unknown id returns ErrUserNotFound.
func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.Update(func(doc *model.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == user.ID {
				doc.Users[i] = *user
				return nil
			}
		}
		return ErrUserNotFound
	})
}

func (r *UserRepository) Insert(ctx context.Context, user *model.User) error {
	return r.db.Update(func(doc *model.Document) error {
		for i := range doc.Users {
			if doc.Users[i].Username == user.Username {
				return ErrUsernameTaken
			}
		}
		doc.Users = append(doc.Users, *user)
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(doc *model.Document) error {
		for i := range doc.Users {
			if doc.Users[i].ID == id {
				doc.Users = append(doc.Users[:i], doc.Users[i+1:]...)
				return nil
			}
		}
		return ErrUserNotFound
	})
}
