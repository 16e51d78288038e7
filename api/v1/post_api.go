package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"bloggerz/api/v1/request"
	"bloggerz/internal/metrics"
	"bloggerz/internal/storage"
	"bloggerz/service"
)

// PostAPI exposes HTTP handlers for post CRUD, likes, profiles and cover
// serving.
type PostAPI struct {
	service *service.PostService
	covers  storage.CoverStore
}

// NewPostAPI wires the post service and cover store into the handlers.
func NewPostAPI(s *service.PostService, covers storage.CoverStore) *PostAPI {
	return &PostAPI{service: s, covers: covers}
}

// Create handles the multipart post submission form.
func (p *PostAPI) Create(c *gin.Context) {
	var form request.CreatePostForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.IncPost("create", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.IncPost("create", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "cover file is required"})
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		metrics.IncPost("create", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	post, err := p.service.CreatePost(c.Request.Context(), c.GetString("user_id"),
		form.Title, form.Summary, form.Content, fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		metrics.IncPost("create", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncPost("create", "success")
	c.JSON(http.StatusOK, post)
}

// Update edits a post; only the author may do so, and the cover is replaced
// only when a new file arrives with the form.
func (p *PostAPI) Update(c *gin.Context) {
	var form request.UpdatePostForm
	if err := c.ShouldBind(&form); err != nil {
		metrics.IncPost("update", "bad_request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		coverName string
		cover     io.Reader
		coverSize int64
	)
	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			metrics.IncPost("update", "internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		defer src.Close()
		coverName, cover, coverSize = fileHeader.Filename, src, fileHeader.Size
	}

	post, err := p.service.UpdatePost(c.Request.Context(), c.GetString("user_id"),
		form.ID, form.Title, form.Summary, form.Content, coverName, cover, coverSize)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			metrics.IncPost("update", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrNotAuthor):
			metrics.IncPost("update", "forbidden")
			c.JSON(http.StatusBadRequest, "you are not the author")
		default:
			metrics.IncPost("update", "internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	metrics.IncPost("update", "success")
	c.JSON(http.StatusOK, post)
}

// List returns the 20 most recent posts with authors resolved.
func (p *PostAPI) List(c *gin.Context) {
	posts, err := p.service.ListPosts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, posts)
}

// Get returns one post by id.
func (p *PostAPI) Get(c *gin.Context) {
	post, err := p.service.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, post)
}

// Like records a like by the session user. The caller identity comes from
// the verified token, not from the request body.
func (p *PostAPI) Like(c *gin.Context) {
	post, err := p.service.LikePost(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			metrics.IncPost("like", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		metrics.IncPost("like", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncPost("like", "success")
	c.JSON(http.StatusOK, post)
}

// Unlike removes the session user's like.
func (p *PostAPI) Unlike(c *gin.Context) {
	post, err := p.service.UnlikePost(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			metrics.IncPost("unlike", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
			return
		}
		metrics.IncPost("unlike", "internal_error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	metrics.IncPost("unlike", "success")
	c.JSON(http.StatusOK, post)
}

// Delete removes a post after the author-match check.
func (p *PostAPI) Delete(c *gin.Context) {
	post, err := p.service.DeletePost(c.Request.Context(), c.GetString("user_id"), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPostNotFound):
			metrics.IncPost("delete", "not_found")
			c.JSON(http.StatusNotFound, gin.H{"error": "post not found"})
		case errors.Is(err, service.ErrNotAuthor):
			metrics.IncPost("delete", "forbidden")
			c.JSON(http.StatusBadRequest, "you are not the author")
		default:
			metrics.IncPost("delete", "internal_error")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	metrics.IncPost("delete", "success")
	c.JSON(http.StatusOK, post)
}

// Profile returns a user's public fields and their authored posts.
func (p *PostAPI) Profile(c *gin.Context) {
	user, posts, err := p.service.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "posts": posts})
}

// ServeCover streams a stored cover from the active storage backend.
func (p *PostAPI) ServeCover(c *gin.Context) {
	rc, contentType, err := p.covers.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cover not found"})
		return
	}
	defer rc.Close()
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
