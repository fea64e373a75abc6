package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type PagesController struct{}

func NewPagesController() *PagesController {
	return &PagesController{}
}

func (pc *PagesController) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Relatoria",
		"description": "Plataforma de envio e acompanhamento de relatórios",
		"links": gin.H{
			"sobre":   "/sobre/",
			"contato": "/contato/",
			"criar":   "/relatorios/criar/",
			"meus":    "/relatorios/meus/",
		},
	})
}

func (pc *PagesController) Sobre(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "Sobre",
		"content": "A Relatoria recebe relatórios de usuários cadastrados e anônimos, " +
			"com fotos e localização opcional, e os disponibiliza para a equipe responsável.",
	})
}

func (pc *PagesController) Contato(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title": "Contato",
		"email": "contato@relatoria.example",
	})
}
