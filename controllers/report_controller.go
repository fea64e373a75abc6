package controllers

import (
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/config"
	"github.com/relatoria/api-go/models"
	"github.com/relatoria/api-go/storage"
	"github.com/relatoria/api-go/utils"
	"gorm.io/gorm"
)

type ReportController struct {
	DB     *gorm.DB
	Store  storage.ImageStore
	Upload *config.UploadConfig
}

func NewReportController(db *gorm.DB, store storage.ImageStore, upload *config.UploadConfig) *ReportController {
	return &ReportController{DB: db, Store: store, Upload: upload}
}

type CreateReportForm struct {
	Title          string   `form:"titulo" binding:"required"`
	Content        string   `form:"conteudo" binding:"required"`
	SubmitterName  string   `form:"nome_usuario"`
	SubmitterEmail string   `form:"email_usuario" binding:"omitempty,email"`
	Latitude       *float64 `form:"latitude"`
	Longitude      *float64 `form:"longitude"`
	Address        string   `form:"endereco"`
}

// claimSet extracts the anonymous claim token from the request, either from
// its cookie or the X-Claim-Token header. Absent or invalid tokens simply
// mean an empty set.
func claimSet(c *gin.Context) []uint {
	token := c.GetHeader("X-Claim-Token")
	if token == "" {
		token, _ = c.Cookie(utils.ClaimCookieName)
	}
	if token == "" {
		return nil
	}

	ids, err := utils.ParseClaimSet(token, []byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return nil
	}
	return ids
}

// validateImages applies the acceptance rules to every candidate before
// anything touches the database: one bad file rejects the whole submission.
func (rc *ReportController) validateImages(files []*multipart.FileHeader) error {
	for _, fh := range files {
		if fh.Size > rc.Upload.MaxUploadSize {
			return fmt.Errorf("a imagem %q excede o tamanho máximo de %dMB",
				fh.Filename, rc.Upload.MaxUploadSize/1024/1024)
		}
		if contentType := fh.Header.Get("Content-Type"); !rc.Upload.IsAllowedType(contentType) {
			return fmt.Errorf("a imagem %q tem tipo não suportado; use apenas JPG, PNG ou GIF", fh.Filename)
		}
		if ext := strings.ToLower(filepath.Ext(fh.Filename)); !rc.Upload.IsAllowedExtension(ext) {
			return fmt.Errorf("a imagem %q tem extensão não suportada; use apenas .jpg, .jpeg, .png ou .gif", fh.Filename)
		}
	}
	return nil
}

// NewReportForm describes the submission contract so clients can build the
// form without hardcoding the limits.
func (rc *ReportController) NewReportForm(c *gin.Context) {
	user := utils.GetUser(c)
	if user != nil && user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Administradores não criam relatórios",
			"redirect": "/admin/relatorios/",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fields":               []string{"titulo", "conteudo", "nome_usuario", "email_usuario", "latitude", "longitude", "endereco"},
		"fileField":            "imagens",
		"captionField":         "legendas",
		"maxUploadSize":        rc.Upload.MaxUploadSize,
		"allowedImageTypes":    rc.Upload.AllowedImageTypes,
		"allowedExtensions":    config.AllowedExtensions,
		"anonymousRequires":    []string{"nome_usuario", "email_usuario"},
		"authenticatedIgnores": []string{"nome_usuario", "email_usuario"},
	})
}

// CreateReport persists one report plus its images as a single transaction,
// or nothing at all.
func (rc *ReportController) CreateReport(c *gin.Context) {
	user := utils.GetUser(c)
	if user != nil && user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Administradores não criam relatórios",
			"redirect": "/admin/relatorios/",
		})
		return
	}

	var form CreateReportForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form.Title = strings.TrimSpace(form.Title)
	form.Content = strings.TrimSpace(form.Content)
	if form.Title == "" || form.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Título e conteúdo são obrigatórios"})
		return
	}

	if user == nil {
		form.SubmitterName = strings.TrimSpace(form.SubmitterName)
		form.SubmitterEmail = strings.TrimSpace(form.SubmitterEmail)
		if form.SubmitterName == "" || form.SubmitterEmail == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nome e email são obrigatórios para envio anônimo"})
			return
		}
	}

	if (form.Latitude == nil) != (form.Longitude == nil) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Latitude e longitude devem ser informadas juntas"})
		return
	}

	var files []*multipart.FileHeader
	var captions []string
	if multipartForm, err := c.MultipartForm(); err == nil && multipartForm != nil {
		files = multipartForm.File["imagens"]
		captions = multipartForm.Value["legendas"]
	}

	if err := rc.validateImages(files); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report := models.Report{
		Title:     form.Title,
		Content:   form.Content,
		Latitude:  form.Latitude,
		Longitude: form.Longitude,
		Address:   strings.TrimSpace(form.Address),
	}
	if user != nil {
		report.UserID = &user.UserID
	} else {
		report.SubmitterName = form.SubmitterName
		report.SubmitterEmail = form.SubmitterEmail
	}

	// One transaction for the report row and every image row; stored files
	// are compensated away if anything inside fails.
	tx := rc.DB.Begin()
	var storedKeys []string
	cleanup := func() {
		for _, key := range storedKeys {
			rc.Store.Delete(key)
		}
	}

	if err := tx.Create(&report).Error; err != nil {
		tx.Rollback()
		log.Printf("ERROR: Failed to create report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar o relatório"})
		return
	}

	for i, fh := range files {
		src, err := fh.Open()
		if err != nil {
			tx.Rollback()
			cleanup()
			log.Printf("ERROR: Failed to read upload %q for report %d: %v", fh.Filename, report.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar o relatório"})
			return
		}

		key := storage.ImageKey(report.ID, fh.Filename)
		err = rc.Store.Save(key, src)
		src.Close()
		if err != nil {
			tx.Rollback()
			cleanup()
			log.Printf("ERROR: Failed to store image %q for report %d: %v", fh.Filename, report.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar o relatório"})
			return
		}
		storedKeys = append(storedKeys, key)

		image := models.ReportImage{
			ReportID:     report.ID,
			FilePath:     key,
			FileName:     fh.Filename,
			DisplayOrder: i,
		}
		if i < len(captions) {
			image.Caption = strings.TrimSpace(captions[i])
		}

		if err := tx.Create(&image).Error; err != nil {
			tx.Rollback()
			cleanup()
			log.Printf("ERROR: Failed to create image row for report %d: %v", report.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar o relatório"})
			return
		}
		report.Images = append(report.Images, image)
	}

	if err := tx.Commit().Error; err != nil {
		cleanup()
		log.Printf("ERROR: Failed to commit report transaction: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível salvar o relatório"})
		return
	}

	response := gin.H{
		"success": true,
		"message": "Relatório criado com sucesso",
		"data":    report,
	}

	if user == nil {
		ids := utils.AppendClaim(claimSet(c), report.ID)
		token, err := utils.SignClaimSet(ids, []byte(os.Getenv("JWT_SECRET")))
		if err != nil {
			// The report is saved; the claim token is the only casualty.
			log.Printf("ERROR: Failed to sign claim token for report %d: %v", report.ID, err)
		} else {
			c.SetCookie(utils.ClaimCookieName, token, int(utils.ClaimTokenTTL.Seconds()), "/", "", false, true)
			response["claim_token"] = token
		}
	}

	c.JSON(http.StatusCreated, response)
}

// MyReports lists the requester's own submissions: owned rows for a
// logged-in user, claim-token rows for an anonymous visitor.
func (rc *ReportController) MyReports(c *gin.Context) {
	user := utils.GetUser(c)
	if user != nil && user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Use a listagem administrativa",
			"redirect": "/admin/relatorios/",
		})
		return
	}

	var ids []uint
	if user == nil {
		ids = claimSet(c)
		if len(ids) == 0 {
			c.JSON(http.StatusOK, StandardResponse{
				Success: true,
				Data:    []models.Report{},
				Pagination: &PaginationMeta{
					CurrentPage: 1, PageSize: ownerPageSize, TotalItems: 0, TotalPages: 1,
				},
			})
			return
		}
	}

	ownReports := func() *gorm.DB {
		query := rc.DB.Model(&models.Report{})
		if user != nil {
			return query.Where("user_id = ?", user.UserID)
		}
		return query.Where("id IN ?", ids)
	}

	var total int64
	if err := ownReports().Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	current, offset, totalPages := clampPage(page, ownerPageSize, total)

	var reports []models.Report
	if err := ownReports().
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, data_upload ASC")
		}).
		Order("data_criacao DESC").
		Offset(offset).
		Limit(ownerPageSize).
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    reports,
		Pagination: &PaginationMeta{
			CurrentPage: current,
			PageSize:    ownerPageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	})
}

// canViewReport is the visibility rule for the public detail view. Staff
// never reach it: the handler redirects them to the administrative view
// first.
func canViewReport(user *utils.UserClaims, claims []uint, report *models.Report) bool {
	if user != nil {
		return report.UserID != nil && *report.UserID == user.UserID
	}
	return utils.ClaimSetContains(claims, report.ID)
}

// GetReportDetail serves the public/owner detail view.
func (rc *ReportController) GetReportDetail(c *gin.Context) {
	user := utils.GetUser(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado", "redirect": "/"})
		return
	}

	if user != nil && user.IsStaff {
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Use a visualização administrativa",
			"redirect": fmt.Sprintf("/admin/relatorios/%d/", id),
		})
		return
	}

	var report models.Report
	if err := rc.DB.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, data_upload ASC")
		}).
		First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado", "redirect": "/"})
		return
	}

	if !canViewReport(user, claimSet(c), &report) {
		// Same body every time: a denied requester learns nothing about
		// the report, however often they retry.
		c.JSON(http.StatusForbidden, gin.H{
			"error":    "Você não tem permissão para ver este relatório",
			"redirect": "/",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
		"autor":   report.AuthorName(),
	})
}
