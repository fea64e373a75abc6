package controllers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/relatoria/api-go/models"
	"github.com/relatoria/api-go/storage"
	"gorm.io/gorm"
)

type AdminController struct {
	DB    *gorm.DB
	Store storage.ImageStore
}

func NewAdminController(db *gorm.DB, store storage.ImageStore) *AdminController {
	return &AdminController{DB: db, Store: store}
}

// filteredReports builds the staff listing query. The free-text filter
// OR-matches title, content and every known author field; the usuario filter
// matches the owning username or the anonymous submitter name; both combine
// with AND.
func (ac *AdminController) filteredReports(search, usuario string) *gorm.DB {
	query := ac.DB.Model(&models.Report{}).
		Joins("LEFT JOIN users ON users.id = relatorios.user_id")

	if search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(relatorios.titulo) LIKE ? OR LOWER(relatorios.conteudo) LIKE ? OR LOWER(users.username) LIKE ? OR LOWER(relatorios.nome_usuario) LIKE ? OR LOWER(relatorios.email_usuario) LIKE ?",
			like, like, like, like, like,
		)
	}

	if usuario != "" {
		query = query.Where("users.username = ? OR relatorios.nome_usuario = ?", usuario, usuario)
	}

	return query
}

// ListReports is the staff-wide listing with search, submitter filter,
// pagination and the aggregates the filter UI feeds on.
func (ac *AdminController) ListReports(c *gin.Context) {
	search := strings.TrimSpace(c.Query("search"))
	usuario := strings.TrimSpace(c.Query("usuario"))

	var total int64
	if err := ac.filteredReports(search, usuario).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	var withLocation int64
	if err := ac.filteredReports(search, usuario).
		Where("relatorios.latitude IS NOT NULL AND relatorios.longitude IS NOT NULL").
		Count(&withLocation).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	current, offset, totalPages := clampPage(page, staffPageSize, total)

	var reports []models.Report
	if err := ac.filteredReports(search, usuario).
		Select("relatorios.*").
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, data_upload ASC")
		}).
		Order("relatorios.data_criacao DESC").
		Offset(offset).
		Limit(staffPageSize).
		Find(&reports).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	// Known submitters, for populating the usuario filter. These are global,
	// not scoped to the current filters.
	var owners []string
	if err := ac.DB.Model(&models.Report{}).
		Joins("JOIN users ON users.id = relatorios.user_id").
		Distinct().
		Order("users.username").
		Pluck("users.username", &owners).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	var anonymous []string
	if err := ac.DB.Model(&models.Report{}).
		Where("user_id IS NULL AND nome_usuario <> ''").
		Distinct().
		Order("nome_usuario").
		Pluck("nome_usuario", &anonymous).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao listar relatórios"})
		return
	}

	c.JSON(http.StatusOK, StandardResponse{
		Success: true,
		Data:    reports,
		Meta: gin.H{
			"search":              search,
			"usuario":             usuario,
			"totalRelatorios":     total,
			"comLocalizacao":      withLocation,
			"usuariosCadastrados": owners,
			"usuariosAnonimos":    anonymous,
		},
		Pagination: &PaginationMeta{
			CurrentPage: current,
			PageSize:    staffPageSize,
			TotalItems:  total,
			TotalPages:  totalPages,
		},
	})
}

// GetReportDetail is the staff detail view: any report, full author contact.
func (ac *AdminController) GetReportDetail(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado"})
		return
	}

	var report models.Report
	if err := ac.DB.
		Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordem ASC, data_upload ASC")
		}).
		First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    report,
		"autor":   report.AuthorName(),
		"email":   report.AuthorEmail(),
	})
}

// deleteImageFiles removes backing files first; rows only go once every
// file is gone. A record must never outlive its file and vice versa, so a
// storage failure aborts before the database is touched.
func (ac *AdminController) deleteImageFiles(images []models.ReportImage) error {
	for _, image := range images {
		if err := ac.Store.Delete(image.FilePath); err != nil {
			return err
		}
	}
	return nil
}

// DeleteReport removes a report, its image rows, and their backing files.
func (ac *AdminController) DeleteReport(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado"})
		return
	}

	var report models.Report
	if err := ac.DB.Preload("Images").First(&report, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado"})
		return
	}

	if err := ac.deleteImageFiles(report.Images); err != nil {
		log.Printf("ERROR: Failed to remove image files for report %d: %v", report.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir o relatório"})
		return
	}

	tx := ac.DB.Begin()
	if err := tx.Where("report_id = ?", report.ID).Delete(&models.ReportImage{}).Error; err != nil {
		tx.Rollback()
		log.Printf("ERROR: Failed to delete image rows for report %d: %v", report.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir o relatório"})
		return
	}
	if err := tx.Delete(&report).Error; err != nil {
		tx.Rollback()
		log.Printf("ERROR: Failed to delete report %d: %v", report.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir o relatório"})
		return
	}
	if err := tx.Commit().Error; err != nil {
		log.Printf("ERROR: Failed to commit report deletion %d: %v", report.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir o relatório"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Relatório excluído",
		"imagens": len(report.Images),
	})
}

// DeleteImage removes a single image from a report, file first.
func (ac *AdminController) DeleteImage(c *gin.Context) {
	reportID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Relatório não encontrado"})
		return
	}
	imageID, err := strconv.ParseUint(c.Param("imageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Imagem não encontrada"})
		return
	}

	var image models.ReportImage
	if err := ac.DB.Where("report_id = ?", reportID).First(&image, imageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Imagem não encontrada"})
		return
	}

	if err := ac.Store.Delete(image.FilePath); err != nil {
		log.Printf("ERROR: Failed to remove image file %s: %v", image.FilePath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir a imagem"})
		return
	}

	if err := ac.DB.Delete(&image).Error; err != nil {
		log.Printf("ERROR: Failed to delete image row %d: %v", image.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Não foi possível excluir a imagem"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Imagem excluída"})
}
