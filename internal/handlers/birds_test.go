package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestVoteBird(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	owner := createUser(t, db, "owner")
	visitor := createUser(t, db, "visitor")
	category := createCategory(t, db, "Parrots")
	bird := createBird(t, db, "Kesha", owner.ID, category.ID)

	votePath := fmt.Sprintf("/api/birds/%d/vote", bird.ID)

	// No token: 401.
	w := doJSON(t, r, "POST", votePath, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// First vote succeeds.
	w = doJSON(t, r, "POST", votePath, authToken(t, visitor), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["visitor_votes"])

	// Second vote from the same visitor: 409, count unchanged.
	w = doJSON(t, r, "POST", votePath, authToken(t, visitor), nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Owner voting for their own bird: 403.
	w = doJSON(t, r, "POST", votePath, authToken(t, owner), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Unknown bird: 404.
	w = doJSON(t, r, "POST", "/api/birds/999/vote", authToken(t, visitor), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubmitEvaluationEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	owner := createUser(t, db, "owner")
	judge := createUser(t, db, "judge")
	makeJudge(t, db, judge)
	visitor := createUser(t, db, "visitor")
	category := createCategory(t, db, "Canaries")
	bird := createBird(t, db, "Birdie", owner.ID, category.ID)

	evalPath := fmt.Sprintf("/api/birds/%d/evaluation", bird.ID)

	// Non-judge: 403.
	w := doJSON(t, r, "PUT", evalPath, authToken(t, visitor), map[string]interface{}{"score": 5})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Out-of-range scores: 422, including an omitted score.
	for _, body := range []map[string]interface{}{{"score": 11}, {"score": 0}, {"comment": "no score"}} {
		w = doJSON(t, r, "PUT", evalPath, authToken(t, judge), body)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	}

	// Valid submission.
	w = doJSON(t, r, "PUT", evalPath, authToken(t, judge), map[string]interface{}{"score": 8, "comment": "lovely"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Revision overwrites.
	w = doJSON(t, r, "PUT", evalPath, authToken(t, judge), map[string]interface{}{"score": 6, "comment": "on reflection"})
	require.Equal(t, http.StatusOK, w.Code)

	detail := doJSON(t, r, "GET", fmt.Sprintf("/api/birds/%d", bird.ID), authToken(t, judge), nil)
	require.Equal(t, http.StatusOK, detail.Code)
	var birdResp map[string]interface{}
	require.NoError(t, json.Unmarshal(detail.Body.Bytes(), &birdResp))
	assert.EqualValues(t, 6, birdResp["judge_score"])
	myEval, ok := birdResp["my_evaluation"].(map[string]interface{})
	require.True(t, ok, "judge should see their own evaluation")
	assert.EqualValues(t, 6, myEval["score"])
	assert.Equal(t, "on reflection", myEval["comment"])
}

func TestWorklistEndpoint(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	owner := createUser(t, db, "owner")
	judge := createUser(t, db, "judge")
	makeJudge(t, db, judge)
	visitor := createUser(t, db, "visitor")

	category := createCategory(t, db, "Parrots")
	evaluated := createBird(t, db, "seen", owner.ID, category.ID)
	createBird(t, db, "unseen", owner.ID, category.ID)

	w := doJSON(t, r, "PUT", fmt.Sprintf("/api/birds/%d/evaluation", evaluated.ID), authToken(t, judge), map[string]interface{}{"score": 7})
	require.Equal(t, http.StatusOK, w.Code)

	// Non-judge: 403.
	w = doJSON(t, r, "GET", "/api/judge/worklist", authToken(t, visitor), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, "GET", "/api/judge/worklist", authToken(t, judge), nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Categories []struct {
			Category struct {
				Name string `json:"name"`
			} `json:"category"`
			Unevaluated []struct {
				Name string `json:"name"`
			} `json:"unevaluated"`
			Evaluated []struct {
				Name string `json:"name"`
			} `json:"evaluated"`
		} `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Categories, 1)
	require.Len(t, resp.Categories[0].Evaluated, 1)
	assert.Equal(t, "seen", resp.Categories[0].Evaluated[0].Name)
	require.Len(t, resp.Categories[0].Unevaluated, 1)
	assert.Equal(t, "unseen", resp.Categories[0].Unevaluated[0].Name)
}

func TestGetBirdDetailStates(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	owner := createUser(t, db, "owner")
	visitor := createUser(t, db, "visitor")
	category := createCategory(t, db, "Parrots")
	bird := createBird(t, db, "Kesha", owner.ID, category.ID)

	detailPath := fmt.Sprintf("/api/birds/%d", bird.ID)

	// Anonymous: scores but no voting state.
	w := doJSON(t, r, "GET", detailPath, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var anon map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &anon))
	assert.NotContains(t, anon, "can_vote")
	assert.EqualValues(t, 0, anon["total_score"])

	// Owner cannot vote for their own bird.
	w = doJSON(t, r, "GET", detailPath, authToken(t, owner), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var asOwner map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &asOwner))
	assert.Equal(t, false, asOwner["can_vote"])

	// Visitor can vote, then can't.
	w = doJSON(t, r, "GET", detailPath, authToken(t, visitor), nil)
	var asVisitor map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &asVisitor))
	assert.Equal(t, true, asVisitor["can_vote"])
	assert.Equal(t, false, asVisitor["has_voted"])

	doJSON(t, r, "POST", detailPath+"/vote", authToken(t, visitor), nil)

	w = doJSON(t, r, "GET", detailPath, authToken(t, visitor), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &asVisitor))
	assert.Equal(t, false, asVisitor["can_vote"])
	assert.Equal(t, true, asVisitor["has_voted"])

	// Unknown bird: 404.
	w = doJSON(t, r, "GET", "/api/birds/999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUploadBird(t *testing.T) {
	db := setupTestDB(t)
	r := newTestRouter(t, db)

	uploader := createUser(t, db, "uploader")
	category := createCategory(t, db, "Parrots")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", "Kesha"))
	require.NoError(t, mw.WriteField("description", "a talkative parrot"))
	require.NoError(t, mw.WriteField("category_id", fmt.Sprint(category.ID)))

	part, err := mw.CreateFormFile("image", "kesha.png")
	require.NoError(t, err)
	img := image.NewRGBA(image.Rect(0, 0, 640, 480))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	require.NoError(t, png.Encode(part, img))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/api/birds", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+authToken(t, uploader))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Kesha", resp["name"])
	assert.NotEmpty(t, resp["image"])
	assert.NotEmpty(t, resp["thumbnail"])
	assert.EqualValues(t, uploader.ID, resp["owner_id"])

	// Missing image: 400.
	var noImage bytes.Buffer
	mw = multipart.NewWriter(&noImage)
	require.NoError(t, mw.WriteField("name", "Ghost"))
	require.NoError(t, mw.WriteField("category_id", fmt.Sprint(category.ID)))
	require.NoError(t, mw.Close())

	req = httptest.NewRequest("POST", "/api/birds", &noImage)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+authToken(t, uploader))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
