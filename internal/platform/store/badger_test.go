package store

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

type note struct {
	ID       string   `json:"id"`
	AuthorID string   `json:"authorId"`
	Body     string   `json:"body"`
	Votes    int      `json:"votes"`
	Tags     []string `json:"tags,omitempty"`
}

func openTestStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadger(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func Test_Badger_Insert_And_Get(t *testing.T) {
	req := require.New(t)
	s := openTestStore(t)
	ctx := context.Background()

	doc := note{ID: "n1", AuthorID: "u1", Body: "hello", Votes: 2, Tags: []string{"go"}}
	req.NoError(s.Insert(ctx, "notes", doc.ID, doc))
	req.ErrorIs(s.Insert(ctx, "notes", doc.ID, doc), ErrDuplicate)

	got, err := GetAs[note](ctx, s, "notes", "n1")
	req.NoError(err)
	req.Equal(doc, got)

	_, err = GetAs[note](ctx, s, "notes", "missing")
	req.ErrorIs(err, ErrNotFound)
}

func Test_Badger_Replace_And_Delete(t *testing.T) {
	req := require.New(t)
	s := openTestStore(t)
	ctx := context.Background()

	req.ErrorIs(s.Replace(ctx, "notes", "n1", note{ID: "n1"}), ErrNotFound)
	req.NoError(s.Insert(ctx, "notes", "n1", note{ID: "n1", Body: "v1"}))
	req.NoError(s.Replace(ctx, "notes", "n1", note{ID: "n1", Body: "v2"}))

	got, err := GetAs[note](ctx, s, "notes", "n1")
	req.NoError(err)
	req.Equal("v2", got.Body)

	req.NoError(s.Delete(ctx, "notes", "n1"))
	req.ErrorIs(s.Delete(ctx, "notes", "n1"), ErrNotFound)
}

func Test_Badger_Find_Filters_By_Collection_And_Field(t *testing.T) {
	req := require.New(t)
	s := openTestStore(t)
	ctx := context.Background()

	req.NoError(s.Insert(ctx, "notes", "n1", note{ID: "n1", AuthorID: "u1"}))
	req.NoError(s.Insert(ctx, "notes", "n2", note{ID: "n2", AuthorID: "u2"}))
	req.NoError(s.Insert(ctx, "notes", "n3", note{ID: "n3", AuthorID: "u1"}))
	req.NoError(s.Insert(ctx, "notesarchive", "n4", note{ID: "n4", AuthorID: "u1"}))

	all, err := FindAs[note](ctx, s, "notes", nil)
	req.NoError(err)
	req.Len(all, 3)

	mine, err := FindAs[note](ctx, s, "notes", Filter{"authorId": "u1"})
	req.NoError(err)
	ids := []string{mine[0].ID, mine[1].ID}
	sort.Strings(ids)
	req.Equal([]string{"n1", "n3"}, ids)

	none, err := FindAs[note](ctx, s, "notes", Filter{"missing": "x"})
	req.NoError(err)
	req.Empty(none)
}

func Test_Badger_Find_Callback_Error_Stops_Scan(t *testing.T) {
	req := require.New(t)
	s := openTestStore(t)
	ctx := context.Background()
	req.NoError(s.Insert(ctx, "notes", "n1", note{ID: "n1"}))
	req.NoError(s.Insert(ctx, "notes", "n2", note{ID: "n2"}))

	stop := errors.New("stop")
	calls := 0
	err := s.Find(ctx, "notes", nil, func(Decoder) error {
		calls++
		return stop
	})
	req.ErrorIs(err, stop)
	req.Equal(1, calls)
}

func Test_Badger_Find_Allows_Writes_From_Callback(t *testing.T) {
	req := require.New(t)
	s := openTestStore(t)
	ctx := context.Background()
	req.NoError(s.Insert(ctx, "notes", "n1", note{ID: "n1", AuthorID: "u1"}))
	req.NoError(s.Insert(ctx, "notes", "n2", note{ID: "n2", AuthorID: "u1"}))

	err := s.Find(ctx, "notes", Filter{"authorId": "u1"}, func(decode Decoder) error {
		var n note
		if err := decode(&n); err != nil {
			return err
		}
		return s.Delete(ctx, "notes", n.ID)
	})
	req.NoError(err)

	left, err := FindAs[note](ctx, s, "notes", nil)
	req.NoError(err)
	req.Empty(left)
}

func Test_Badger_In_Memory(t *testing.T) {
	req := require.New(t)
	s, err := OpenBadger("")
	req.NoError(err)
	defer s.Close()

	req.NoError(s.Insert(context.Background(), "notes", "n1", note{ID: "n1"}))
	_, err = GetAs[note](context.Background(), s, "notes", "n1")
	req.NoError(err)
}

func Test_Badger_Concurrent_Insert_Same_Key(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	const writers = 10
	results := make(chan error, writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			results <- s.Insert(ctx, "user_emails", "dup@uni.edu", note{ID: "dup", Votes: n})
		}(i)
	}
	inserted := 0
	for i := 0; i < writers; i++ {
		err := <-results
		if err == nil {
			inserted++
			continue
		}
		require.ErrorIs(t, err, ErrDuplicate)
	}
	require.Equal(t, 1, inserted)
}

func TestOpenSelectsDriver(t *testing.T) {
	req := require.New(t)
	s, err := Open(context.Background(), Options{Driver: "Badger"})
	req.NoError(err)
	req.IsType(&BadgerStore{}, s)
	req.NoError(s.Close())

	_, err = Open(context.Background(), Options{Driver: "sqlite"})
	req.Error(err)
}
