package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/warehouse-ledger/internal/application/fulfillment"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/warehouse-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/warehouse-ledger/internal/interfaces/http"
)

const (
	managerID  = "user-manager"
	operatorID = "user-operator"
	otherID    = "user-other"
	variantID  = "variant-red-m"
)

// newTestServer arma la API completa sobre el almacén en memoria.
func newTestServer() *fiber.App {
	store := memory.NewStore()
	repos := store.Repos()
	log := zerolog.Nop()

	ledger := inventory.NewLedgerUseCase(repos.Ledger, repos.Movements)
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(log)})
	apphttp.Router(app, apphttp.RouterDeps{
		UnitCatalog:    inventory.NewUnitCatalogUseCase(store, repos.Units),
		Ledger:         ledger,
		RecordMovement: inventory.NewRecordMovementUseCase(store, nil, nil, log),
		StockCard:      inventory.NewStockCardUseCase(ledger, repos.Units, pdf.NewStockCardGenerator("test")),
		Audit:          inventory.NewAuditUseCase(repos.Ledger, nil, log),
		WarehouseUC:    usecase.NewWarehouseUseCase(store, repos.Warehouses, repos.Ledger),
		Assignment:     fulfillment.NewAssignmentUseCase(repos.WorkItems, nil, log),
		LineItems:      fulfillment.NewLineItemUseCase(store),
		JWTSecret:      testJWTSecret,
		ManagerRoles:   testManagerRoles,
	})
	return app
}

type client struct {
	t     *testing.T
	app   *fiber.App
	token string
}

func as(t *testing.T, app *fiber.App, userID, role string) client {
	return client{t: t, app: app, token: bearer(t, userID, role)}
}

// do ejecuta la petición y decodifica el cuerpo JSON (si lo hay).
func (c client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Authorization", c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out))
	}
	return resp.StatusCode, out
}

// seed crea unidades, bodega, orden asignada al operador y una línea de 30 piezas.
func seed(t *testing.T, app *fiber.App) (box12, warehouse, order string) {
	mgr := as(t, app, managerID, "manager")
	op := as(t, app, operatorID, "operator")

	status, _ := mgr.do(http.MethodPost, "/api/units", map[string]any{"name": "pieza", "multiplier": 1})
	require.Equal(t, http.StatusCreated, status)
	status, unit := mgr.do(http.MethodPost, "/api/units", map[string]any{"name": "caja12", "multiplier": 12})
	require.Equal(t, http.StatusCreated, status)
	box12 = unit["id"].(string)

	status, wh := mgr.do(http.MethodPost, "/api/warehouses", map[string]any{"name": "Principal", "capacity": 1000})
	require.Equal(t, http.StatusCreated, status)
	warehouse = wh["id"].(string)

	status, wi := op.do(http.MethodPost, "/api/work-items", map[string]any{"kind": "supplier_inbound"})
	require.Equal(t, http.StatusCreated, status)
	order = wi["id"].(string)

	status, _ = op.do(http.MethodPut, "/api/line-items/line-1", map[string]any{
		"order_id": order, "variant_id": variantID, "flow": "inbound", "ordered_quantity": 30,
	})
	require.Equal(t, http.StatusOK, status)

	status, assigned := op.do(http.MethodPost, "/api/work-items/"+order+"/assign", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "assigned", assigned["handler"].(map[string]any)["state"])
	return box12, warehouse, order
}

func movement(box12, warehouse, order string, count int) map[string]any {
	return map[string]any{
		"type": "INBOUND", "variant_id": variantID, "warehouse_id": warehouse,
		"unit_id": box12, "unit_count": count, "line_item_id": "line-1", "order_id": order,
	}
}

func TestAPI_InboundFlow(t *testing.T) {
	app := newTestServer()
	box12, warehouse, order := seed(t, app)
	op := as(t, app, operatorID, "operator")
	mgr := as(t, app, managerID, "manager")

	status, mv := op.do(http.MethodPost, "/api/movements", movement(box12, warehouse, order, 2))
	require.Equal(t, http.StatusCreated, status)
	assert.EqualValues(t, 24, mv["atomic_quantity"])
	assert.EqualValues(t, 12, mv["unit_multiplier"])

	// 24 + 12 > 30 pedido.
	status, body := op.do(http.MethodPost, "/api/movements", movement(box12, warehouse, order, 1))
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "EXCEEDS_ORDERED_QUANTITY", body["code"])

	status, bal := op.do(http.MethodGet, "/api/ledger/balance?variant_id="+variantID+"&warehouse_id="+warehouse, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 24, bal["quantity"])

	status, logPage := op.do(http.MethodGet, "/api/ledger/log?variant_id="+variantID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, logPage["page"].(map[string]any)["total"])

	status, line := op.do(http.MethodGet, "/api/line-items/line-1", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 24, line["warehoused_quantity"])
	assert.EqualValues(t, 6, line["remaining"])

	status, audit := mgr.do(http.MethodGet, "/api/ledger/audit", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, audit["consistent"])

	status, _ = op.do(http.MethodGet, "/api/ledger/audit", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, summary := op.do(http.MethodGet, "/api/warehouses/"+warehouse, nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 24, summary["total_quantity"])
	assert.Equal(t, "0.024", summary["utilization"])

	status, body = mgr.do(http.MethodDelete, "/api/warehouses/"+warehouse, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "WAREHOUSE_NOT_EMPTY", body["code"])
}

func TestAPI_MovementByNonHolderRejected(t *testing.T) {
	app := newTestServer()
	box12, warehouse, order := seed(t, app)
	other := as(t, app, otherID, "operator")

	status, body := other.do(http.MethodPost, "/api/movements", movement(box12, warehouse, order, 1))
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "NOT_OWNER", body["code"])

	status, body = other.do(http.MethodPost, "/api/work-items/"+order+"/assign", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_ASSIGNED", body["code"])
}

func TestAPI_ConcurrentAssignSingleWinner(t *testing.T) {
	app := newTestServer()
	op := as(t, app, operatorID, "operator")
	status, wi := op.do(http.MethodPost, "/api/work-items", map[string]any{"kind": "customer_outbound"})
	require.Equal(t, http.StatusCreated, status)
	id := wi["id"].(string)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results = map[int]int{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := as(t, app, "user-"+string(rune('a'+i)), "operator")
			status, _ := c.do(http.MethodPost, "/api/work-items/"+id+"/assign", nil)
			mu.Lock()
			results[status]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, results[http.StatusOK])
	assert.Equal(t, n-1, results[http.StatusConflict])
}

func TestAPI_TransitionsAndClose(t *testing.T) {
	app := newTestServer()
	_, _, order := seed(t, app)
	op := as(t, app, operatorID, "operator")

	status, body := op.do(http.MethodPost, "/api/work-items/"+order+"/transition", map[string]any{"status": "inventoried"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_TRANSITION", body["code"])

	status, body = op.do(http.MethodPost, "/api/work-items/"+order+"/transition", map[string]any{
		"status": "delivered", "expected_status": "delivered",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body["code"])

	status, _ = op.do(http.MethodPost, "/api/work-items/"+order+"/transition", map[string]any{"status": "delivered"})
	require.Equal(t, http.StatusOK, status)
	status, done := op.do(http.MethodPost, "/api/work-items/"+order+"/complete", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "inventoried", done["status"])
	assert.Equal(t, "completed", done["handler"].(map[string]any)["state"])

	status, body = op.do(http.MethodPost, "/api/work-items/"+order+"/release", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "WORK_ITEM_CLOSED", body["code"])
}

func TestAPI_UnitCatalog(t *testing.T) {
	app := newTestServer()
	mgr := as(t, app, managerID, "manager")
	op := as(t, app, operatorID, "operator")

	status, body := mgr.do(http.MethodPost, "/api/units", map[string]any{"name": "caja12", "multiplier": 12})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "BASE_UNIT_MISSING", body["code"])

	status, base := mgr.do(http.MethodPost, "/api/units", map[string]any{"name": "pieza", "multiplier": 1})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, true, base["is_base"])

	status, _ = op.do(http.MethodPost, "/api/units", map[string]any{"name": "docena", "multiplier": 12})
	assert.Equal(t, http.StatusForbidden, status)

	status, box := mgr.do(http.MethodPost, "/api/units", map[string]any{"name": "caja12", "multiplier": 12})
	require.Equal(t, http.StatusCreated, status)
	boxID := box["id"].(string)

	status, display := op.do(http.MethodGet, "/api/units/"+boxID+"/display?quantity=30", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "2.5", display["quantity"])

	status, body = mgr.do(http.MethodPatch, "/api/units/"+boxID, map[string]any{"multiplier": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "INVALID_MULTIPLIER", body["code"])

	status, body = mgr.do(http.MethodDelete, "/api/units/"+base["id"].(string), nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "BASE_UNIT_PROTECTED", body["code"])

	status, _ = mgr.do(http.MethodDelete, "/api/units/"+boxID, nil)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestAPI_StockCardPDF(t *testing.T) {
	app := newTestServer()
	box12, warehouse, order := seed(t, app)
	op := as(t, app, operatorID, "operator")
	status, _ := op.do(http.MethodPost, "/api/movements", movement(box12, warehouse, order, 1))
	require.Equal(t, http.StatusCreated, status)

	req := httptest.NewRequest(http.MethodGet, "/api/ledger/log.pdf?variant_id="+variantID, nil)
	req.Header.Set("Authorization", op.token)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
}

func TestAPI_BadQueryAndUnknownRoute(t *testing.T) {
	app := newTestServer()
	op := as(t, app, operatorID, "operator")

	status, body := op.do(http.MethodGet, "/api/ledger/log?from=ayer", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = op.do(http.MethodGet, "/api/ledger/balance?variant_id="+variantID, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body["code"])

	status, body = op.do(http.MethodGet, "/api/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
