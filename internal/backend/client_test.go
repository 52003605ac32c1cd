package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ms-composer/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.Client(), nil)
}

func TestClient_ForwardsBearerToken(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.EventRecord{ID: "evt-1"})
	})

	ctx := WithToken(context.Background(), "token-xyz")
	_, err := NewEventClient(client).GetEvent(ctx, "evt-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer token-xyz", gotAuth)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.EventRecord{ID: "evt-1"})
	})

	_, err := NewEventClient(client).GetEvent(context.Background(), "evt-1")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestClient_MapsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"message": "event not found"})
	})

	_, err := NewEventClient(client).GetEvent(context.Background(), "evt-gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "event not found")
}

func TestClient_MapsAuthStatusCodes(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, err := NewEventClient(client).GetEvent(context.Background(), "evt-1")
		assert.ErrorIs(t, err, ErrAuthExpired, "status %d should map to auth expiry", status)
	}
}

func TestClient_SniffsAuthMessage(t *testing.T) {
	// Some backend services answer auth problems with a generic status but an
	// auth-flavored message body.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "Token expired, please sign in again"})
	})

	_, err := NewEventClient(client).GetEvent(context.Background(), "evt-1")
	assert.ErrorIs(t, err, ErrAuthExpired)
}

func TestClient_GenericErrorKeepsStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"message": "upstream flaked"})
	})

	_, err := NewEventClient(client).GetEvent(context.Background(), "evt-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrAuthExpired)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "upstream flaked")
}

func TestMediaClient_DeleteTreats404AsSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	media := NewMediaClient(client)

	assert.NoError(t, media.DeleteFlyer(context.Background(), "evt-1"))
	assert.NoError(t, media.DeleteGalleryImage(context.Background(), "evt-1", "img-1"))
}

func TestMediaClient_StageTemp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/temp", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "cover.png", header.Filename)

		json.NewEncoder(w).Encode(TempUpload{TempID: "tmp-1", URL: "https://cdn/tmp-1"})
	})

	up, err := NewMediaClient(client).StageTemp(context.Background(), "cover.png", []byte("fake-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "tmp-1", up.TempID)
	assert.Equal(t, "https://cdn/tmp-1", up.URL)
}

func TestMediaClient_PersistFlyerSendsURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/event/evt-1/flyer/persist", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://cdn/tmp-1", body["url"])

		json.NewEncoder(w).Encode(models.ImageRecord{ID: "img-1", URL: "https://cdn/img-1"})
	})

	img, err := NewMediaClient(client).PersistFlyer(context.Background(), "evt-1", "https://cdn/tmp-1")
	require.NoError(t, err)
	assert.Equal(t, "img-1", img.ID)
}

func TestEventClient_CreateEvent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/event/create-event", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Summer Fest", body["title"])

		json.NewEncoder(w).Encode(models.EventRecord{ID: "evt-1", Slug: "summer-fest"})
	})

	rec, err := NewEventClient(client).CreateEvent(context.Background(), models.DetailsForm{
		Title:       "Summer Fest",
		Category:    "music",
		Subcategory: "festival",
	})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", rec.ID)
	assert.Equal(t, "summer-fest", rec.Slug)
}

func TestEventClient_ReplaceSponsorsSendsEmptyListNotNull(t *testing.T) {
	var raw map[string]json.RawMessage
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, NewEventClient(client).ReplaceSponsors(context.Background(), "evt-1", nil))
	assert.JSONEq(t, "[]", string(raw["sponsors"]), "clearing sponsors must send an explicit empty list")
}
