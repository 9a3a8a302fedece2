package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"contactbook/internal/models"
	"contactbook/internal/pdf"
	"contactbook/internal/repositories"
	"contactbook/internal/services"
)

type ContactHandler struct {
	Service *services.ContactService
	PDF     pdf.Generator
}

func NewContactHandler(service *services.ContactService, gen pdf.Generator) *ContactHandler {
	return &ContactHandler{Service: service, PDF: gen}
}

type contactRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phone_number" binding:"required"`
	Birthday    string `json:"birthday" binding:"required"` // YYYY-MM-DD
}

func (r *contactRequest) toModel() (*models.Contact, error) {
	birthday, err := time.Parse("2006-01-02", r.Birthday)
	if err != nil {
		return nil, errors.New("birthday must be YYYY-MM-DD")
	}
	return &models.Contact{
		FirstName:   r.FirstName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		Birthday:    birthday,
	}, nil
}

// @Summary      Create contact
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        contact  body      contactRequest  true  "Contact data"
// @Success      201      {object}  models.Contact
// @Failure      400      {object}  map[string]string
// @Failure      401      {object}  map[string]string
// @Router       /api/contacts [post]
func (h *ContactHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.Create(user.ID, contact); err != nil {
		log.Printf("[contacts][create] userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create contact"})
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// @Summary      List contacts
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        skip   query     int  false  "Offset"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  map[string]interface{}
// @Failure      401    {object}  map[string]string
// @Router       /api/contacts [get]
func (h *ContactHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	contacts, err := h.Service.List(user.ID, limit, skip)
	if err != nil {
		log.Printf("[contacts][list] userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list contacts"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "skip": skip, "limit": limit})
}

// @Summary      Get contact
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact ID"
// @Success      200  {object}  models.Contact
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [get]
func (h *ContactHandler) GetByID(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	contact, err := h.Service.GetByID(id, user.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		log.Printf("[contacts][get] userID=%d id=%d: %v", user.ID, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get contact"})
		return
	}
	c.JSON(http.StatusOK, contact)
}

// @Summary      Update contact
// @Tags         Contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      int             true  "Contact ID"
// @Param        contact  body      contactRequest  true  "New contact data"
// @Success      200      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /api/contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact, err := req.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	contact.ID = id
	if err := h.Service.Update(user.ID, contact); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		log.Printf("[contacts][update] userID=%d id=%d: %v", user.ID, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact success updated"})
}

// @Summary      Delete contact
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Contact ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid contact id"})
		return
	}
	if err := h.Service.Delete(id, user.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Contact not found"})
			return
		}
		log.Printf("[contacts][delete] userID=%d id=%d: %v", user.ID, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete contact"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contact success deleted"})
}

// @Summary      Search contacts
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        q      query     string  true   "Matched against first name, last name and email"
// @Param        skip   query     int     false  "Offset"
// @Param        limit  query     int     false  "Page size"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Router       /api/contacts/search [get]
func (h *ContactHandler) Search(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	query := c.Query("q")
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	contacts, err := h.Service.Search(user.ID, query, limit, skip)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "skip": skip, "limit": limit})
}

// @Summary      Upcoming birthdays
// @Tags         Contacts
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window in days (default 7)"
// @Success      200   {object}  map[string]interface{}
// @Router       /api/contacts/birthdays [get]
func (h *ContactHandler) UpcomingBirthdays(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	contacts, err := h.Service.UpcomingBirthdays(user.ID, days)
	if err != nil {
		log.Printf("[contacts][birthdays] userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list birthdays"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"contacts": contacts, "days": days})
}

// @Summary      Export contacts as PDF
// @Tags         Contacts
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /api/contacts/export [get]
func (h *ContactHandler) Export(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "could not validate credentials"})
		return
	}
	contacts, err := h.Service.ListAll(user.ID)
	if err != nil {
		log.Printf("[contacts][export] userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export contacts"})
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="contacts.pdf"`)
	c.Status(http.StatusOK)
	if err := h.PDF.ContactList(c.Writer, user.Username, contacts); err != nil {
		log.Printf("[contacts][export] render userID=%d: %v", user.ID, err)
	}
}
