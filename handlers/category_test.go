package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mediadesk-backend/models"

	"github.com/google/uuid"
)

func TestGetCategoriesPartition(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "client@test.com", models.RoleClient)

	news := seedCategory(db, "News", nil)
	sports := seedCategory(db, "Sports", nil)
	seedCategory(db, "Local News", &news.ID)
	seedCategory(db, "World News", &news.ID)
	seedCategory(db, "Football", &sports.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories", nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	categories, ok := resp["categories"].([]interface{})
	if !ok {
		t.Fatalf("expected categories array, got %v", resp)
	}
	if len(categories) != 5 {
		t.Errorf("expected 5 categories, got %d", len(categories))
	}

	// Every category is either a main (no parent) or points at a main.
	mains := 0
	subs := 0
	for _, raw := range categories {
		cat := raw.(map[string]interface{})
		if cat["parent_id"] == nil {
			mains++
		} else {
			subs++
		}
	}
	if mains != 2 || subs != 3 {
		t.Errorf("expected 2 mains and 3 subs, got %d and %d", mains, subs)
	}
}

func TestGetCategoryWithSubcategories(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "client@test.com", models.RoleClient)

	news := seedCategory(db, "News", nil)
	seedCategory(db, "Local News", &news.ID)
	seedCategory(db, "World News", &news.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories/"+news.ID.String(), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	cat := resp["category"].(map[string]interface{})
	subs, _ := cat["subcategories"].([]interface{})
	if len(subs) != 2 {
		t.Errorf("expected 2 subcategories, got %d", len(subs))
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "client@test.com", models.RoleClient)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("GET", "/api/categories/"+uuid.NewString(), nil, token))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCreateCategoryAsAdmin(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name": "Documentaries",
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	cat := resp["category"].(map[string]interface{})
	if cat["name"] != "Documentaries" {
		t.Errorf("expected name Documentaries, got %v", cat["name"])
	}
	if cat["parent_id"] != nil {
		t.Errorf("expected nil parent_id, got %v", cat["parent_id"])
	}
}

func TestCreateSubcategory(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name":      "Local News",
		"parent_id": news.ID.String(),
		"episodes":  12,
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	cat := resp["category"].(map[string]interface{})
	if cat["parent_id"] != news.ID.String() {
		t.Errorf("expected parent_id %s, got %v", news.ID, cat["parent_id"])
	}
	if cat["episodes"].(float64) != 12 {
		t.Errorf("expected 12 episodes, got %v", cat["episodes"])
	}
}

func TestCreateCategoryEmptyName(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	r := setupCategoryRouter(db)
	for _, body := range []map[string]interface{}{
		{},
		{"name": ""},
		{"name": "   "},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", body, token))
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d", body, w.Code)
		}
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 0 {
		t.Errorf("expected no categories created, got %d", count)
	}
}

func TestCreateCategoryNameTooLong(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	long := make([]byte, models.MaxCategoryNameLength+1)
	for i := range long {
		long[i] = 'a'
	}

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name": string(long),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCreateCategoryEmptyParentBecomesMain(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name":      "Music",
		"parent_id": "",
	}, token))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var cat models.Category
	db.Where("name = ?", "Music").First(&cat)
	if cat.ParentID != nil {
		t.Errorf("expected nil ParentID, got %v", cat.ParentID)
	}
}

func TestCreateCategoryUnderSubcategoryRejected(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)
	local := seedCategory(db, "Local News", &news.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name":      "Too Deep",
		"parent_id": local.ID.String(),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCreateCategoryParentNotFound(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("POST", "/api/admin/categories", map[string]interface{}{
		"name":      "Orphan",
		"parent_id": uuid.NewString(),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUpdateCategory(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)
	local := seedCategory(db, "Local News", &news.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/admin/categories/"+local.ID.String(), map[string]interface{}{
		"name":     "Regional News",
		"episodes": 24,
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Category
	db.Where("id = ?", local.ID).First(&updated)
	if updated.Name != "Regional News" {
		t.Errorf("expected name Regional News, got %s", updated.Name)
	}
	if updated.Episodes != 24 {
		t.Errorf("expected 24 episodes, got %d", updated.Episodes)
	}
	// Parent unchanged when omitted from the payload
	if updated.ParentID == nil || *updated.ParentID != news.ID {
		t.Errorf("expected parent to remain %s, got %v", news.ID, updated.ParentID)
	}
}

func TestUpdateCategoryPromoteToMain(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)
	local := seedCategory(db, "Local News", &news.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/admin/categories/"+local.ID.String(), map[string]interface{}{
		"parent_id": "",
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Category
	db.Where("id = ?", local.ID).First(&updated)
	if updated.ParentID != nil {
		t.Errorf("expected nil ParentID after promotion, got %v", updated.ParentID)
	}
}

func TestUpdateCategoryDemoteWithChildrenRejected(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)
	local := seedCategory(db, "Local News", &news.ID)
	sports := seedCategory(db, "Sports", nil)

	// News still has Local News under it, so it cannot move under Sports:
	// that would leave Local News three levels deep.
	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/admin/categories/"+news.ID.String(), map[string]interface{}{
		"parent_id": sports.ID.String(),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	var unchanged models.Category
	db.Where("id = ?", news.ID).First(&unchanged)
	if unchanged.ParentID != nil {
		t.Errorf("expected News to stay a main category, got parent %v", unchanged.ParentID)
	}
	var child models.Category
	db.Where("id = ?", local.ID).First(&child)
	if child.ParentID == nil || *child.ParentID != news.ID {
		t.Errorf("expected Local News parent unchanged, got %v", child.ParentID)
	}
}

func TestUpdateCategoryDemoteChildlessMainAllowed(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	empty := seedCategory(db, "Archive", nil)
	news := seedCategory(db, "News", nil)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/admin/categories/"+empty.ID.String(), map[string]interface{}{
		"parent_id": news.ID.String(),
	}, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var updated models.Category
	db.Where("id = ?", empty.ID).First(&updated)
	if updated.ParentID == nil || *updated.ParentID != news.ID {
		t.Errorf("expected Archive under News, got %v", updated.ParentID)
	}
}

func TestUpdateCategorySelfParentRejected(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)
	news := seedCategory(db, "News", nil)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("PUT", "/api/admin/categories/"+news.ID.String(), map[string]interface{}{
		"parent_id": news.ID.String(),
	}, token))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	news := seedCategory(db, "News", nil)
	seedCategory(db, "Local News", &news.ID)
	seedCategory(db, "World News", &news.ID)
	seedCategory(db, "Politics", &news.ID)

	sports := seedCategory(db, "Sports", nil)
	football := seedCategory(db, "Football", &sports.ID)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/admin/categories/"+news.ID.String(), nil, token))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	if resp["deleted_subcategories"].(float64) != 3 {
		t.Errorf("expected 3 deleted subcategories, got %v", resp["deleted_subcategories"])
	}

	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 2 {
		t.Errorf("expected 2 surviving categories, got %d", count)
	}

	var survivor models.Category
	if err := db.Where("id = ?", football.ID).First(&survivor).Error; err != nil {
		t.Errorf("unrelated subcategory should survive: %v", err)
	}
}

func TestDeleteCategoryNotFound(t *testing.T) {
	db := freshDB()
	_, token := seedTestUser(db, "admin@test.com", models.RoleAdmin)

	r := setupCategoryRouter(db)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, authRequest("DELETE", "/api/admin/categories/"+uuid.NewString(), nil, token))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	db := freshDB()
	_, clientToken := seedTestUser(db, "client@test.com", models.RoleClient)
	news := seedCategory(db, "News", nil)

	r := setupCategoryRouter(db)

	cases := []struct {
		method string
		url    string
	}{
		{"POST", "/api/admin/categories"},
		{"PUT", "/api/admin/categories/" + news.ID.String()},
		{"DELETE", "/api/admin/categories/" + news.ID.String()},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, authRequest(tc.method, tc.url, map[string]interface{}{"name": "X"}, clientToken))
		if w.Code != http.StatusForbidden {
			t.Errorf("%s %s: expected 403, got %d", tc.method, tc.url, w.Code)
		}
	}

	// Store untouched
	var count int64
	db.Model(&models.Category{}).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 category, got %d", count)
	}

	var unchanged models.Category
	db.Where("id = ?", news.ID).First(&unchanged)
	if unchanged.Name != "News" {
		t.Errorf("category modified by forbidden request: %s", unchanged.Name)
	}
}

func TestCategoryMutationsRequireAuth(t *testing.T) {
	db := freshDB()
	r := setupCategoryRouter(db)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("POST", "/api/admin/categories", map[string]interface{}{"name": "X"}))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest("GET", "/api/categories", nil))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unauthenticated read, got %d", w.Code)
	}
}
