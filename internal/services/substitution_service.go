package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/NutriFlow-2025/coaching-service/internal/validator"
)

// ===== FOOD TABLE =====

// FoodItem is one row of the nutrition reference table. Macro values are per
// 100 g.
type FoodItem struct {
	Name     string  `json:"name"`
	Group    string  `json:"group"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// foodGroupOrder is the menu order for the four usable groups
var foodGroupOrder = []string{"Carboidrato", "Fruta", "Gordura", "Proteína"}

// normalizeFoodGroup folds the table's free-form group labels into the four
// categories the calculator works with. Check order matters: "óleo de
// amendoim" must land in Gordura before the protein keywords see it.
func normalizeFoodGroup(raw string) string {
	g := strings.ToLower(strings.TrimSpace(raw))

	contains := func(keywords ...string) bool {
		for _, kw := range keywords {
			if strings.Contains(g, kw) {
				return true
			}
		}
		return false
	}

	switch {
	case contains("fruta"):
		return "Fruta"
	case contains("gord", "lip", "oleo", "óleo", "azeite", "castanha", "noze", "manteiga", "amendoim"):
		return "Gordura"
	case contains("prot", "carne", "ovo", "ave", "peixe", "leite", "queijo", "frio", "iogurte"):
		return "Proteína"
	case contains("carbo", "cereal", "massa", "pão", "raiz", "tuberculo", "leguminosa", "farinha", "bisc", "bolo"):
		return "Carboidrato"
	default:
		return ""
	}
}

// focusMacro picks the macro the comparison highlights for a group
func focusMacro(group string) string {
	switch group {
	case "Proteína":
		return "proteina"
	case "Gordura":
		return "gordura"
	default:
		return "carboidrato"
	}
}

// LoadFoodTable reads the nutrition workbook. Rows whose group folds to none
// of the four categories are dropped.
func LoadFoodTable(path string) ([]FoodItem, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open food table: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("food table has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read food table: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("food table has no data rows")
	}

	col := make(map[string]int)
	for i, header := range rows[0] {
		col[strings.TrimSpace(header)] = i
	}
	for _, required := range []string{"Alimento", "Grupo", "Kcal"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("food table is missing column %s", required)
		}
	}

	cell := func(row []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	// Stray text in numeric cells coerces to zero
	num := func(row []string, name string) float64 {
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell(row, name), ",", "."), 64)
		if err != nil {
			return 0
		}
		return v
	}

	var items []FoodItem
	for _, row := range rows[1:] {
		name := cell(row, "Alimento")
		group := normalizeFoodGroup(cell(row, "Grupo"))
		if name == "" || group == "" {
			continue
		}
		items = append(items, FoodItem{
			Name:     name,
			Group:    group,
			Calories: num(row, "Kcal"),
			Protein:  num(row, "Proteína"),
			Carbs:    num(row, "Carboidrato"),
			Fat:      num(row, "Gordura"),
		})
	}

	return items, nil
}

// ===== RESPONSE DTOs =====

// NutrientBreakdown is the full nutrient picture of one portion
type NutrientBreakdown struct {
	Quantity float64 `json:"quantity"`
	Calories float64 `json:"calories"`
	Carbs    float64 `json:"carbs"`
	Protein  float64 `json:"protein"`
	Fat      float64 `json:"fat"`
}

// SubstitutionResult is the isocaloric swap answer
type SubstitutionResult struct {
	Base           NutrientBreakdown `json:"base"`
	Target         NutrientBreakdown `json:"target"`
	TargetFood     string            `json:"target_food"`
	FocusMacro     string            `json:"focus_macro"`
	FocusBaseGrams float64           `json:"focus_base_grams"`
	FocusDiffGrams float64           `json:"focus_diff_grams"`
}

// ===== SERVICE INTERFACE =====

// SubstitutionService answers "how much of food B equals this much of food A"
// keeping calories constant, within the same food group.
type SubstitutionService interface {
	Groups(ctx context.Context) ([]string, error)
	FoodsByGroup(ctx context.Context, group string) ([]FoodItem, error)
	Calculate(ctx context.Context, req *validator.SubstitutionRequest) (*SubstitutionResult, error)
}

// ===== SERVICE IMPLEMENTATION =====

type substitutionService struct {
	logger    *slog.Logger
	validator *validator.Validator
	tablePath string

	loadOnce sync.Once
	loadErr  error
	items    []FoodItem
	byName   map[string]FoodItem
}

func NewSubstitutionService(logger *slog.Logger, v *validator.Validator, tablePath string) SubstitutionService {
	return &substitutionService{
		logger:    logger,
		validator: v,
		tablePath: tablePath,
	}
}

// load reads the workbook once; the table is static reference data
func (s *substitutionService) load() error {
	s.loadOnce.Do(func() {
		items, err := LoadFoodTable(s.tablePath)
		if err != nil {
			s.loadErr = err
			return
		}
		s.items = items
		s.byName = make(map[string]FoodItem, len(items))
		for _, item := range items {
			s.byName[item.Name] = item
		}
		s.logger.Info("Food table loaded", "path", s.tablePath, "items", len(items))
	})
	return s.loadErr
}

func (s *substitutionService) Groups(ctx context.Context) ([]string, error) {
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
	}

	present := make(map[string]bool)
	for _, item := range s.items {
		present[item.Group] = true
	}

	var groups []string
	for _, g := range foodGroupOrder {
		if present[g] {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func (s *substitutionService) FoodsByGroup(ctx context.Context, group string) ([]FoodItem, error) {
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
	}

	var foods []FoodItem
	for _, item := range s.items {
		if item.Group == group {
			foods = append(foods, item)
		}
	}
	sort.Slice(foods, func(i, j int) bool { return foods[i].Name < foods[j].Name })
	return foods, nil
}

func (s *substitutionService) Calculate(ctx context.Context, req *validator.SubstitutionRequest) (*SubstitutionResult, error) {
	if errs := s.validator.Validate(req); errs.HasErrors() {
		return nil, fmt.Errorf("%w: %s", ErrValidationFailed, errs.Error())
	}

	if err := s.load(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrStoreUnavailable, err.Error())
	}

	base, ok := s.byName[req.Food]
	if !ok {
		return nil, NewNotFoundError("food", req.Food)
	}
	target, ok := s.byName[req.Target]
	if !ok {
		return nil, NewNotFoundError("food", req.Target)
	}

	if base.Group != target.Group {
		return nil, NewValidationError("substitutions must stay within the same food group")
	}

	baseCalories := req.Quantity * base.Calories / 100

	var targetQty float64
	if target.Calories > 0 {
		targetQty = baseCalories * 100 / target.Calories
	}

	result := &SubstitutionResult{
		Base:       breakdown(base, req.Quantity),
		Target:     breakdown(target, targetQty),
		TargetFood: target.Name,
		FocusMacro: focusMacro(base.Group),
	}

	switch result.FocusMacro {
	case "proteina":
		result.FocusBaseGrams = result.Base.Protein
		result.FocusDiffGrams = result.Target.Protein - result.Base.Protein
	case "gordura":
		result.FocusBaseGrams = result.Base.Fat
		result.FocusDiffGrams = result.Target.Fat - result.Base.Fat
	default:
		result.FocusBaseGrams = result.Base.Carbs
		result.FocusDiffGrams = result.Target.Carbs - result.Base.Carbs
	}

	return result, nil
}

func breakdown(item FoodItem, quantity float64) NutrientBreakdown {
	return NutrientBreakdown{
		Quantity: quantity,
		Calories: quantity * item.Calories / 100,
		Carbs:    quantity * item.Carbs / 100,
		Protein:  quantity * item.Protein / 100,
		Fat:      quantity * item.Fat / 100,
	}
}
