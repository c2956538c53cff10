package redmine

import (
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
)

// fixture is a fake Redmine API backed by a TLS test server, mirroring the
// shapes of the real endpoints. It records per-path hit counts so tests can
// assert caching behavior.
type fixture struct {
	mu   sync.Mutex
	hits map[string]int
	ts   *httptest.Server
}

func (f *fixture) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fixture) record(path string) {
	f.mu.Lock()
	f.hits[path]++
	f.mu.Unlock()
}

func namedEntity(id int, name string) gin.H {
	return gin.H{"id": id, "name": name}
}

// fixtureIssue answers GET /issues/{id}.json. Issue 999 comes back with the
// wrong assignee and 998 with the wrong status, simulating a server that
// silently refused part of an update.
func fixtureIssue(id int) gin.H {
	status := namedEntity(2, "In Progress")
	assignee := namedEntity(2, "Jane Doe")
	switch id {
	case 999:
		assignee = namedEntity(1, "John Doe")
	case 998:
		status = namedEntity(1, "New")
	case 123:
		status = namedEntity(1, "New")
		assignee = namedEntity(1, "John Doe")
	}
	return gin.H{
		"id":          id,
		"subject":     "Test issue",
		"status":      status,
		"tracker":     namedEntity(1, "Bug"),
		"author":      namedEntity(1, "John Doe"),
		"project":     namedEntity(1, "Test Project"),
		"assigned_to": assignee,
	}
}

func newFixture(t *testing.T) (*fixture, *Server) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &fixture{hits: map[string]int{}}
	allProjects := []gin.H{
		{"id": 1, "name": "Project One", "identifier": "proj1"},
		{"id": 2, "name": "Project Two", "identifier": "proj2"},
		{"id": 3, "name": "Project Three", "identifier": "proj3"},
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		f.record(c.Request.URL.Path)
		c.Next()
	})

	r.GET("/issues.json", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"issues":      []gin.H{fixtureIssue(123)},
			"total_count": 1,
		})
	})
	r.GET("/issues/:id", func(c *gin.Context) {
		id, err := strconv.Atoi(strings.TrimSuffix(c.Param("id"), ".json"))
		if err != nil {
			c.JSON(404, gin.H{"error": "Not found"})
			return
		}
		c.JSON(200, gin.H{"issue": fixtureIssue(id)})
	})
	r.PUT("/issues/:id", func(c *gin.Context) {
		c.JSON(200, gin.H{"success": true})
	})
	r.POST("/issues.json", func(c *gin.Context) {
		var body struct {
			Issue map[string]any `json:"issue"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(422, gin.H{"errors": []string{err.Error()}})
			return
		}
		c.JSON(201, gin.H{"issue": gin.H{
			"id":      321,
			"subject": body.Issue["subject"],
			"project": namedEntity(1, "Test Project"),
			"tracker": namedEntity(1, "Bug"),
		}})
	})
	r.GET("/projects.json", func(c *gin.Context) {
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		end := offset + limit
		if end > len(allProjects) {
			end = len(allProjects)
		}
		page := []gin.H{}
		if offset < len(allProjects) {
			page = allProjects[offset:end]
		}
		c.JSON(200, gin.H{"projects": page, "total_count": len(allProjects)})
	})
	r.GET("/issue_statuses.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"issue_statuses": []gin.H{
			namedEntity(1, "New"),
			namedEntity(2, "In Progress"),
		}})
	})
	r.GET("/time_entry_activities.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"time_entry_activities": []gin.H{namedEntity(9, "Development")}})
	})
	r.GET("/projects/:id/memberships.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"memberships": []gin.H{
			{"id": 1, "user": namedEntity(1, "John Doe")},
			{"id": 2, "group": namedEntity(7, "Developers")},
		}})
	})
	r.GET("/trackers.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"trackers": []gin.H{namedEntity(1, "Bug"), namedEntity(2, "Feature")}})
	})
	r.GET("/enumerations/issue_priorities.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"issue_priorities": []gin.H{namedEntity(2, "Normal"), namedEntity(3, "High")}})
	})
	r.POST("/time_entries.json", func(c *gin.Context) {
		c.JSON(200, gin.H{"time_entry": gin.H{"id": 1}})
	})
	r.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "Not found"})
	})

	f.ts = httptest.NewTLSServer(r)
	t.Cleanup(f.ts.Close)

	server, err := NewServer(Options{
		Address:    f.ts.URL,
		Key:        "test-api-key",
		HTTPClient: f.ts.Client(),
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	return f, server
}
