package handlers

import (
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/buzzly-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type PostHandler struct {
	postService *services.PostService
}

func NewPostHandler(postService *services.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) Create(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	post, err := h.postService.Create(c.UserContext(), actor.ID, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *PostHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post id")
	}

	post, err := h.postService.Get(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) Update(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post id")
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := dto.Validate(&req); err != nil {
		return badRequest(c, err.Error())
	}

	post, err := h.postService.Update(c.UserContext(), actor, id, &req)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(post)
}

func (h *PostHandler) Delete(c *fiber.Ctx) error {
	actor, err := identity.GetActor(c)
	if err != nil {
		return writeError(c, err)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid post id")
	}

	if err := h.postService.Delete(c.UserContext(), actor, id); err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.MessageResponse{Message: "Post deleted successfully"})
}
