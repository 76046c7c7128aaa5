package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitHubGateway_MergePullRequest(t *testing.T) {
	testCases := []struct {
		name           string
		responseStatus int
		responseBody   string
		expectError    bool
		expectedErrMsg string
	}{
		{
			name:           "happy path",
			responseStatus: http.StatusOK,
			responseBody:   `{"merged": true, "message": "Pull Request successfully merged"}`,
		},
		{
			name:           "API accepts but does not merge",
			responseStatus: http.StatusOK,
			responseBody:   `{"merged": false, "message": "Head branch was modified"}`,
			expectError:    true,
			expectedErrMsg: "was not merged",
		},
		{
			name:           "API rejects the merge",
			responseStatus: http.StatusMethodNotAllowed,
			responseBody:   `{"message": "Pull Request is not mergeable"}`,
			expectError:    true,
			expectedErrMsg: "failed to merge pull request #7",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/repos/org/repo/pulls/7/merge", r.URL.Path)
				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Contains(t, string(body), "squashed everything")
				w.WriteHeader(tc.responseStatus)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			err := gateway.MergePullRequest(context.Background(), "org", "repo", 7, "squashed everything")
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestGitHubGateway_ClosePullRequest(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/repos/org/repo/pulls/7", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"state":"closed"`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"number": 7, "state": "closed"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	assert.NoError(t, gateway.ClosePullRequest(context.Background(), "org", "repo", 7))
}

func TestGitHubGateway_SubmitReview(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/org/repo/pulls/7/reviews", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"event":"APPROVE"`)
		assert.Contains(t, string(body), "ship it")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"id": 1, "state": "APPROVED"}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	assert.NoError(t, gateway.SubmitReview(context.Background(), "org", "repo", 7, ReviewApprove, "ship it"))
}

func TestGitHubGateway_AddComment(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/repos/org/repo/issues/7/comments", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "looks good")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": 99}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	assert.NoError(t, gateway.AddComment(context.Background(), "org", "repo", 7, "looks good"))
}

func TestGitHubGateway_UpdateFileContents(t *testing.T) {
	handler := func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/org/repo/contents/docs/readme.md", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"message":"fix typo"`)
		assert.Contains(t, string(body), `"branch":"feature"`)
		assert.Contains(t, string(body), `"sha":"abc123"`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"content": {"path": "docs/readme.md"}}`)
	}
	gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
	defer server.Close()

	err := gateway.UpdateFileContents(context.Background(), "org", "repo",
		"docs/readme.md", "fix typo", "feature", []byte("# hello"), "abc123")
	assert.NoError(t, err)
}

func TestGitHubGateway_UpdateBranch(t *testing.T) {
	testCases := []struct {
		name           string
		responseStatus int
		responseBody   string
		expectError    bool
	}{
		{
			// GitHub answers 202 while it updates the branch asynchronously.
			name:           "accepted is success",
			responseStatus: http.StatusAccepted,
			responseBody:   `{"message": "Updating pull request branch."}`,
		},
		{
			name:           "conflict is an error",
			responseStatus: http.StatusConflict,
			responseBody:   `{"message": "merge conflict between base and head"}`,
			expectError:    true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPut, r.Method)
				assert.Equal(t, "/repos/org/repo/pulls/7/update-branch", r.URL.Path)
				w.WriteHeader(tc.responseStatus)
				fmt.Fprint(w, tc.responseBody)
			}
			gateway, server := setupTestGateway(t, http.HandlerFunc(handler))
			defer server.Close()

			err := gateway.UpdateBranch(context.Background(), "org", "repo", 7)
			if tc.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "failed to update branch")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
