package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"comment-gateway/internal/client"
	"comment-gateway/internal/domain"
	"comment-gateway/internal/dto"
	"comment-gateway/internal/response"
	"comment-gateway/internal/session"
)

var errServiceFailure = response.NewServiceError(500, "Internal Server Error")

func staticOwner() session.Provider {
	return session.Static(ownerSession(1))
}

// Content of n non-blank characters is accepted iff n <= 1000
func TestProperty_ContentLengthBound(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("length bound is inclusive at 1000 characters", prop.ForAll(
		func(n int) bool {
			_, err := ValidateContent(strings.Repeat("é", n))
			return (err == nil) == (n <= domain.MaxContentLength)
		},
		gen.IntRange(1, 1200),
	))

	properties.Property("whitespace-only drafts never reach the service", prop.ForAll(
		func(n int) bool {
			mock := client.NewMockCommentClient()
			e, _ := newTestEngine(mock, ownerSession(1))
			_, err := e.Create(context.Background(), strings.Repeat(" \t\n", n), nil)
			return err != nil && mock.TotalCalls() == 0
		},
		gen.IntRange(0, 50),
	))

	properties.TestingRun(t)
}

// Every successful mutation is followed by exactly one refetch of the active mode
func TestProperty_OneRefetchPerMutation(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("list calls equal successful mutations", prop.ForAll(
		func(ops []int, flat bool) bool {
			mock := client.NewMockCommentClient()
			mode := domain.ViewModeTree
			if flat {
				mode = domain.ViewModeFlat
			}
			e := NewCommentEngine(EngineConfig{
				Client:   mock,
				Sessions: staticOwner(),
				PostID:   5,
				ViewMode: mode,
			})

			mock.UpdateFunc = func(ctx context.Context, token string, commentID int64, req dto.UpdateCommentRequest) (*dto.UpdateCommentResponse, error) {
				if commentID%2 == 0 {
					return nil, errServiceFailure
				}
				return &dto.UpdateCommentResponse{ID: commentID}, nil
			}
			mock.DeleteFunc = func(ctx context.Context, token string, commentID int64, query url.Values) (*dto.DeleteCommentResponse, error) {
				return &dto.DeleteCommentResponse{ID: commentID}, nil
			}

			succeeded := 0
			for i, op := range ops {
				id := int64(i + 1)
				switch op {
				case 0:
					if _, err := e.Create(context.Background(), "hi", nil); err == nil {
						succeeded++
					}
				case 1:
					if _, err := e.Edit(context.Background(), id, "changed"); err == nil {
						succeeded++
					}
				case 2:
					if ok, err := e.Delete(context.Background(), id, Confirmed); err == nil && ok {
						succeeded++
					}
				case 3:
					if _, err := e.Restore(context.Background(), id); err == nil {
						succeeded++
					}
				}
			}

			active, other := "ListTree", "ListFlat"
			if flat {
				active, other = other, active
			}
			return mock.Calls(active) == succeeded && mock.Calls(other) == 0
		},
		gen.SliceOf(gen.IntRange(0, 3)),
		gen.Bool(),
	))

	properties.TestingRun(t)
}

// Only the latest refresh may write the list, whatever order responses arrive in
func TestProperty_LatestRefreshWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("out-of-order completions keep the newest list", prop.ForAll(
		func(n int, completionOrder []int) bool {
			mock := client.NewMockCommentClient()
			gates := make([]chan struct{}, n)
			for i := range gates {
				gates[i] = make(chan struct{})
			}
			entered := make(chan int)
			var mu sync.Mutex
			calls := 0
			mock.ListTreeFunc = func(ctx context.Context, token string, postID int64) (*dto.CommentTreeListResponse, error) {
				mu.Lock()
				i := calls
				calls++
				mu.Unlock()
				entered <- i
				<-gates[i]
				return &dto.CommentTreeListResponse{Total: i}, nil
			}
			e := NewCommentEngine(EngineConfig{Client: mock, PostID: 1})

			// issue refreshes one after another so refresh i holds token i+1
			done := make(chan error, n)
			for i := 0; i < n; i++ {
				go func() {
					done <- e.Refresh(context.Background())
				}()
				<-entered
			}

			released := make(map[int]bool, n)
			release := func(i int) {
				if !released[i] {
					released[i] = true
					close(gates[i])
				}
			}
			for _, idx := range completionOrder {
				release(idx % n)
			}
			for i := 0; i < n; i++ {
				release(i)
			}

			superseded := 0
			for i := 0; i < n; i++ {
				if errors.Is(<-done, ErrSuperseded) {
					superseded++
				}
			}

			state := e.Snapshot()
			return state.Total == n-1 && !state.Loading && superseded == n-1
		},
		gen.IntRange(1, 6),
		gen.SliceOf(gen.IntRange(0, 5)),
	))

	properties.TestingRun(t)
}
