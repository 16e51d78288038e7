package request

// Post forms arrive as multipart because of the cover file; the file part
// itself is read off the form separately.

type CreatePostForm struct {
	Title   string `form:"title" binding:"required"`
	Summary string `form:"summary" binding:"required"`
	Content string `form:"content" binding:"required"`
}

type UpdatePostForm struct {
	ID      string `form:"id" binding:"required"`
	Title   string `form:"title" binding:"required"`
	Summary string `form:"summary" binding:"required"`
	Content string `form:"content" binding:"required"`
}
