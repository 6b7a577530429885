package bboltstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.etcd.io/bbolt"

	"github.com/byguide/byguide"
)

const (
	bboltFile   = "byguide.db"
	bucketPosts = "posts"
	bucketSlugs = "slugs"
)

// BBoltStore implements byguide.PostStore on a bbolt file. Posts are stored
// by ID; a slug bucket maps each slug back to its ID, giving both uniqueness
// enforcement and ordered prefix scans.
type BBoltStore struct {
	db      *bbolt.DB
	dataDir string
}

// New creates a new BBoltStore rooted at dataDir.
func New(dataDir string) *BBoltStore {
	return &BBoltStore{dataDir: dataDir}
}

// Init opens the bbolt file and creates the buckets.
func (bs *BBoltStore) Init() error {
	if _, err := os.Stat(bs.dataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(bs.dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bbolt.Open(filepath.Join(bs.dataDir, bboltFile), 0600, nil)
	if err != nil {
		return fmt.Errorf("failed to open bbolt store: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketPosts)); err != nil {
			return fmt.Errorf("failed to create posts bucket: %w", err)
		}

		if _, err := tx.CreateBucketIfNotExists([]byte(bucketSlugs)); err != nil {
			return fmt.Errorf("failed to create slugs bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create buckets: %w", err)
	}

	bs.db = db
	return nil
}

// Close closes the bbolt file.
func (bs *BBoltStore) Close() error {
	if bs.db != nil {
		return bs.db.Close()
	}
	return nil
}

// Create persists a new post. The ID comes from the posts bucket sequence;
// slug uniqueness is checked inside the same write transaction, so two racing
// publishes cannot both claim a slug.
func (bs *BBoltStore) Create(ctx context.Context, post *byguide.Post) (*byguide.Post, error) {
	created := *post
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	err := bs.db.Update(func(tx *bbolt.Tx) error {
		posts := tx.Bucket([]byte(bucketPosts))
		slugs := tx.Bucket([]byte(bucketSlugs))
		if posts == nil || slugs == nil {
			return fmt.Errorf("bucket not found")
		}

		if slugs.Get([]byte(created.Slug)) != nil {
			return fmt.Errorf("%w: %s", byguide.ErrSlugExists, created.Slug)
		}

		seq, err := posts.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to advance sequence: %w", err)
		}
		created.ID = int64(seq)

		postBytes, err := created.Serialize()
		if err != nil {
			return fmt.Errorf("failed to serialize post: %w", err)
		}

		if err := posts.Put(idKey(created.ID), postBytes); err != nil {
			return fmt.Errorf("failed to put post in bucket: %w", err)
		}

		if err := slugs.Put([]byte(created.Slug), idKey(created.ID)); err != nil {
			return fmt.Errorf("failed to put slug in bucket: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

// GetByID retrieves a post by its ID.
func (bs *BBoltStore) GetByID(ctx context.Context, id int64) (*byguide.Post, error) {
	var post *byguide.Post
	err := bs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPosts))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		postBytes := b.Get(idKey(id))
		if postBytes == nil {
			return fmt.Errorf("%w: id %d", byguide.ErrPostNotFound, id)
		}

		var err error
		post, err = byguide.Deserialize(postBytes)
		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// GetBySlug retrieves a post by its slug.
func (bs *BBoltStore) GetBySlug(ctx context.Context, slug string) (*byguide.Post, error) {
	var post *byguide.Post
	err := bs.db.View(func(tx *bbolt.Tx) error {
		posts := tx.Bucket([]byte(bucketPosts))
		slugs := tx.Bucket([]byte(bucketSlugs))
		if posts == nil || slugs == nil {
			return fmt.Errorf("bucket not found")
		}

		id := slugs.Get([]byte(slug))
		if id == nil {
			return fmt.Errorf("%w: %s", byguide.ErrPostNotFound, slug)
		}

		postBytes := posts.Get(id)
		if postBytes == nil {
			return fmt.Errorf("%w: %s", byguide.ErrPostNotFound, slug)
		}

		var err error
		post, err = byguide.Deserialize(postBytes)
		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// SlugsWithPrefix returns all slugs starting with the given prefix, using a
// cursor seek over the slug bucket.
func (bs *BBoltStore) SlugsWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var matches []string
	err := bs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketSlugs))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		cursor := b.Cursor()
		seek := []byte(prefix)
		for k, _ := cursor.Seek(seek); k != nil && strings.HasPrefix(string(k), prefix); k, _ = cursor.Next() {
			matches = append(matches, string(k))
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error scanning slugs: %w", err)
	}

	return matches, nil
}

// All returns every post, newest first.
func (bs *BBoltStore) All(ctx context.Context) ([]*byguide.Post, error) {
	return bs.collect(func(*byguide.Post) bool { return true })
}

// ByCategory returns the posts in a category, newest first.
func (bs *BBoltStore) ByCategory(ctx context.Context, category string) ([]*byguide.Post, error) {
	return bs.collect(func(p *byguide.Post) bool { return p.Category == category })
}

// Delete removes a post and its slug mapping.
func (bs *BBoltStore) Delete(ctx context.Context, id int64) error {
	return bs.db.Update(func(tx *bbolt.Tx) error {
		posts := tx.Bucket([]byte(bucketPosts))
		slugs := tx.Bucket([]byte(bucketSlugs))
		if posts == nil || slugs == nil {
			return fmt.Errorf("bucket not found")
		}

		postBytes := posts.Get(idKey(id))
		if postBytes == nil {
			return fmt.Errorf("%w: id %d", byguide.ErrPostNotFound, id)
		}

		post, err := byguide.Deserialize(postBytes)
		if err != nil {
			return fmt.Errorf("error deserializing post: %w", err)
		}

		if err := posts.Delete(idKey(id)); err != nil {
			return fmt.Errorf("failed to delete post: %w", err)
		}

		if err := slugs.Delete([]byte(post.Slug)); err != nil {
			return fmt.Errorf("failed to delete slug: %w", err)
		}

		return nil
	})
}

func (bs *BBoltStore) collect(keep func(*byguide.Post) bool) ([]*byguide.Post, error) {
	var posts []*byguide.Post
	err := bs.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketPosts))
		if b == nil {
			return fmt.Errorf("bucket not found")
		}

		return b.ForEach(func(k, v []byte) error {
			post, err := byguide.Deserialize(v)
			if err != nil {
				return fmt.Errorf("error deserializing post: %w", err)
			}

			if keep(post) {
				posts = append(posts, post)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})

	return posts, nil
}

func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}
