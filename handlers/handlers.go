package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/nexbill-backend/models"
	"github.com/fadhlanhapp/nexbill-backend/repository"
	"github.com/fadhlanhapp/nexbill-backend/services"
	"github.com/fadhlanhapp/nexbill-backend/utils"
)

// HandlerServices contains all service dependencies
type HandlerServices struct {
	User              models.UserContext
	PersonService     *services.PersonService
	GroupService      *services.GroupService
	DraftSession      *services.DraftSession
	Receipts          *services.ReceiptService
	BillService       *services.BillService
	SpendService      *services.SpendService
	SettlementService *services.SettlementService
	ExcelService      *services.ExcelService
}

// NewHandlerServices wires the services over store. The current user is
// created on first start.
func NewHandlerServices(ctx context.Context, store repository.Store, extractor services.Extractor, currentUserName string) (*HandlerServices, error) {
	calculation := services.NewCalculationService()
	personService := services.NewPersonService(store, currentUserName)

	user, err := personService.UserContext(ctx)
	if err != nil {
		return nil, err
	}

	spendService := services.NewSpendService(store, calculation)
	return &HandlerServices{
		User:              user,
		PersonService:     personService,
		GroupService:      services.NewGroupService(store),
		DraftSession:      services.NewDraftSession(store, services.NewAssignmentService(calculation), user),
		Receipts:          services.NewReceiptService(extractor),
		BillService:       services.NewBillService(store, personService, calculation),
		SpendService:      spendService,
		SettlementService: services.NewSettlementService(store, personService, calculation),
		ExcelService:      services.NewExcelService(store, spendService, personService, calculation),
	}, nil
}

var handlerServices *HandlerServices

// InitHandlers installs the services used by every handler
func InitHandlers(s *HandlerServices) {
	handlerServices = s
}

// GetCurrentUser returns the device owner
func GetCurrentUser(c *gin.Context) {
	person, err := handlerServices.PersonService.CurrentUser(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.HandleSuccess(c, person)
}

// Health reports that the server is up
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
