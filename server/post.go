package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"gorm.io/gorm/clause"

	"travelbuddy-server/model"
	"travelbuddy-server/server/middlewares"
	"travelbuddy-server/utils"
)

// CreatePost publishes a post with optional image uploads from a
// multipart form.
func (h *Handler) CreatePost(c *gin.Context) {
	var input struct {
		Content string   `form:"content" json:"content" binding:"required"`
		Images  []string `json:"images"`
	}
	if err := c.ShouldBind(&input); err != nil {
		c.Error(utils.BadRequest("content is required"))
		return
	}

	// Images arrive either as already-hosted URLs in the JSON body or as
	// multipart uploads.
	images := pq.StringArray(input.Images)
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["images"] {
			url, err := h.Images.Upload(file, "posts")
			if err != nil {
				c.Error(err)
				return
			}
			images = append(images, url)
		}
	}

	post := model.Post{
		Content: input.Content,
		Images:  images,
		UserID:  middlewares.CurrentUserID(c),
	}
	if err := h.DB.Create(&post).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "post created successfully", post)
}

// ListPosts is the paginated feed, newest first by default.
func (h *Handler) ListPosts(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))

	query := h.DB.Model(&model.Post{})
	if searchTerm := c.Query("searchTerm"); searchTerm != "" {
		pattern := "%" + searchTerm + "%"
		query = query.Joins("JOIN users ON users.id = posts.user_id").
			Where("posts.content ILIKE ? OR users.full_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var posts []model.Post
	if err := query.Preload("User").Preload("Reactions").Preload("Comments").
		Order("posts." + opts.Order()).
		Offset(opts.Offset()).Limit(opts.Limit).
		Find(&posts).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "posts fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: posts,
	})
}

// MyPosts lists the caller's own posts.
func (h *Handler) MyPosts(c *gin.Context) {
	var posts []model.Post
	if err := h.DB.Preload("Reactions").Preload("Comments").
		Where("user_id = ?", middlewares.CurrentUserID(c)).
		Order("created_at desc").
		Find(&posts).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "posts fetched successfully", posts)
}

// GetPost returns one post with its author, reactions, shares and
// comments.
func (h *Handler) GetPost(c *gin.Context) {
	var post model.Post
	if err := h.DB.Preload("User").
		Preload("Reactions").Preload("Reactions.User").
		Preload("Shares").
		Preload("Comments").Preload("Comments.User").
		First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "post fetched successfully", post)
}

// DeletePost removes a post. Author or admin only.
func (h *Handler) DeletePost(c *gin.Context) {
	var post model.Post
	if err := h.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if post.UserID != middlewares.CurrentUserID(c) && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you can only delete your own posts"))
		return
	}
	if err := h.DB.Delete(&post).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "post deleted successfully", nil)
}

// ReactToPost records the caller's reaction. A second reaction from the
// same user replaces the previous type via upsert on the (post, user)
// index.
func (h *Handler) ReactToPost(c *gin.Context) {
	var input struct {
		Type string `json:"type" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !model.ValidReactionType(input.Type) {
		c.Error(utils.BadRequest("type must be one of LIKE, LOVE, WOW, SAD, ANGRY"))
		return
	}

	if err := h.DB.First(&model.Post{}, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	reaction := model.PostReaction{
		PostID: c.Param("id"),
		UserID: middlewares.CurrentUserID(c),
		Type:   input.Type,
	}
	if err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "post_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"type"}),
	}).Create(&reaction).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "reaction saved successfully", reaction)
}

// RemoveReaction deletes the caller's reaction if one exists.
func (h *Handler) RemoveReaction(c *gin.Context) {
	result := h.DB.Where("post_id = ? AND user_id = ?", c.Param("id"), middlewares.CurrentUserID(c)).
		Delete(&model.PostReaction{})
	if result.Error != nil {
		c.Error(result.Error)
		return
	}
	if result.RowsAffected == 0 {
		c.Error(utils.NotFound("you have not reacted to this post"))
		return
	}
	utils.SendResponse(c, http.StatusOK, "reaction removed successfully", nil)
}

// SavePost bookmarks a post for the caller. Saving twice is a no-op.
func (h *Handler) SavePost(c *gin.Context) {
	if err := h.DB.First(&model.Post{}, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	save := model.PostSave{
		PostID: c.Param("id"),
		UserID: middlewares.CurrentUserID(c),
	}
	if err := h.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&save).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "post saved successfully", nil)
}

// UnsavePost drops the bookmark. Removing a bookmark that does not
// exist is also a no-op.
func (h *Handler) UnsavePost(c *gin.Context) {
	if err := h.DB.Where("post_id = ? AND user_id = ?", c.Param("id"), middlewares.CurrentUserID(c)).
		Delete(&model.PostSave{}).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "post unsaved successfully", nil)
}

// SharePost records a share with an optional message. Shares are
// append-only; sharing the same post repeatedly creates new rows.
func (h *Handler) SharePost(c *gin.Context) {
	if err := h.DB.First(&model.Post{}, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	var input struct {
		Message *string `json:"message"`
	}
	_ = c.ShouldBindJSON(&input)

	share := model.PostShare{
		PostID:  c.Param("id"),
		UserID:  middlewares.CurrentUserID(c),
		Message: input.Message,
	}
	if err := h.DB.Create(&share).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "post shared successfully", share)
}

// MySavedPosts lists the caller's bookmarked posts, most recently saved
// first.
func (h *Handler) MySavedPosts(c *gin.Context) {
	var saves []model.PostSave
	if err := h.DB.Preload("Post").Preload("Post.User").
		Where("user_id = ?", middlewares.CurrentUserID(c)).
		Order("created_at desc").
		Find(&saves).Error; err != nil {
		c.Error(err)
		return
	}

	posts := make([]*model.Post, 0, len(saves))
	for _, save := range saves {
		if save.Post != nil {
			posts = append(posts, save.Post)
		}
	}
	utils.SendResponse(c, http.StatusOK, "saved posts fetched successfully", posts)
}

// CreateComment adds a comment to a post.
func (h *Handler) CreateComment(c *gin.Context) {
	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("content is required"))
		return
	}

	if err := h.DB.First(&model.Post{}, "id = ?", c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	comment := model.PostComment{
		PostID:  c.Param("id"),
		UserID:  middlewares.CurrentUserID(c),
		Content: input.Content,
	}
	if err := h.DB.Create(&comment).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusCreated, "comment created successfully", comment)
}

// ListComments returns a post's comments, paginated, oldest first by
// default.
func (h *Handler) ListComments(c *gin.Context) {
	opts := utils.ParsePageOptions(c.Query("page"), c.Query("limit"), c.Query("sortBy"), c.Query("sortOrder"))
	if c.Query("sortOrder") == "" {
		opts.SortOrder = "asc"
	}

	query := h.DB.Model(&model.PostComment{}).Where("post_id = ?", c.Param("id"))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.Error(err)
		return
	}

	var comments []model.PostComment
	if err := query.Preload("User").Scopes(opts.Scope).Find(&comments).Error; err != nil {
		c.Error(err)
		return
	}

	utils.SendResponse(c, http.StatusOK, "comments fetched successfully", utils.ListResult{
		Meta: opts.NewMeta(total),
		Data: comments,
	})
}

// UpdateComment edits the caller's own comment.
func (h *Handler) UpdateComment(c *gin.Context) {
	var input struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.Error(utils.BadRequest("content is required"))
		return
	}

	var comment model.PostComment
	if err := h.DB.First(&comment, "id = ? AND post_id = ?", c.Param("commentId"), c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}
	if comment.UserID != middlewares.CurrentUserID(c) {
		c.Error(utils.Forbidden("you can only edit your own comments"))
		return
	}

	if err := h.DB.Model(&comment).Update("content", input.Content).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "comment updated successfully", comment)
}

// DeleteComment removes a comment. The comment author, the post author
// and admins may delete.
func (h *Handler) DeleteComment(c *gin.Context) {
	var comment model.PostComment
	if err := h.DB.First(&comment, "id = ? AND post_id = ?", c.Param("commentId"), c.Param("id")).Error; err != nil {
		c.Error(err)
		return
	}

	var post model.Post
	if err := h.DB.First(&post, "id = ?", comment.PostID).Error; err != nil {
		c.Error(err)
		return
	}

	userID := middlewares.CurrentUserID(c)
	if comment.UserID != userID && post.UserID != userID && !middlewares.IsAdmin(c) {
		c.Error(utils.Forbidden("you cannot delete this comment"))
		return
	}

	if err := h.DB.Delete(&comment).Error; err != nil {
		c.Error(err)
		return
	}
	utils.SendResponse(c, http.StatusOK, "comment deleted successfully", nil)
}
