package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"vitalog/internal/domain"
	apperrors "vitalog/internal/errors"
	"vitalog/internal/logger"
	"vitalog/internal/utils"
)

const maxImageBytes = 10 << 20

// dayResponse adds the date to a log payload; the stored document
// keys the date in its path instead.
type dayResponse struct {
	Date string `json:"date"`
	*domain.DailyLog
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	profile, err := s.users.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var profile domain.UserProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := currentUserID(c)
	if err := s.users.SaveProfile(c.Request.Context(), uid, &profile); err != nil {
		writeError(c, err)
		return
	}
	updated, err := s.users.GetProfile(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleListBloodTests(c *gin.Context) {
	records, err := s.bloodTests.ListRecords(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleAddBloodTest(c *gin.Context) {
	var test domain.BloodTest
	if err := c.ShouldBindJSON(&test); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := s.bloodTests.AddRecord(c.Request.Context(), currentUserID(c), &test)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleExtractBloodTest(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if fileHeader.Size > maxImageBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image exceeds the size limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, apperrors.NewInternalError(err))
		return
	}
	defer file.Close()
	image, err := io.ReadAll(file)
	if err != nil {
		writeError(c, apperrors.NewInternalError(err))
		return
	}

	record, err := s.bloodTests.AddFromImage(c.Request.Context(), currentUserID(c), image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (s *Server) handleDeleteBloodTest(c *gin.Context) {
	if err := s.bloodTests.DeleteRecord(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleGetDay(c *gin.Context) {
	day, err := s.mealLogs.GetDay(c.Request.Context(), currentUserID(c), c.Param("date"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dayResponse{Date: day.Date, DailyLog: day})
}

func (s *Server) handleAddMeal(c *gin.Context) {
	var body struct {
		Name      string          `json:"name"`
		Nutrients json.RawMessage `json:"nutrients"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := currentUserID(c)
	date := c.Param("date")

	var day *domain.DailyLog
	var err error
	if len(body.Nutrients) > 0 && string(body.Nutrients) != "null" {
		var nutrients domain.NutrientProfile
		if err := json.Unmarshal(body.Nutrients, &nutrients); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		day, err = s.mealLogs.AddMeal(c.Request.Context(), uid, date, domain.Meal{Name: body.Name, Nutrients: nutrients})
	} else {
		// No nutrients given: resolve the profile from the food name.
		day, err = s.mealLogs.AddMealByName(c.Request.Context(), uid, date, body.Name)
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dayResponse{Date: day.Date, DailyLog: day})
}

func (s *Server) handleDeleteMeal(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Meal index must be an integer"})
		return
	}

	day, err := s.mealLogs.DeleteMeal(c.Request.Context(), currentUserID(c), c.Param("date"), index)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dayResponse{Date: day.Date, DailyLog: day})
}

func (s *Server) handleHistory(c *gin.Context) {
	series, err := s.history.Range(c.Request.Context(), currentUserID(c), c.Query("from"), c.Query("to"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, series)
}

func (s *Server) handleMenuSuggestions(c *gin.Context) {
	date := c.DefaultQuery("date", utils.Today())
	suggestions, err := s.menu.Suggest(c.Request.Context(), currentUserID(c), date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

// writeError maps application errors onto HTTP statuses in one place.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled error", "error", err.Error(), "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch appErr.Type {
	case apperrors.ErrorTypeValidation:
		status = http.StatusBadRequest
	case apperrors.ErrorTypeNotFound:
		status = http.StatusNotFound
	case apperrors.ErrorTypePermission:
		status = http.StatusUnauthorized
	case apperrors.ErrorTypeRateLimit:
		status = http.StatusTooManyRequests
	case apperrors.ErrorTypeTimeout:
		status = http.StatusGatewayTimeout
	case apperrors.ErrorTypeExternal:
		status = http.StatusBadGateway
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", appErr.LogFields()...)
	}
	c.JSON(status, gin.H{"error": appErr.Message, "code": appErr.Code})
}
