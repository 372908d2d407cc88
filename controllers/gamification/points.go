package gamificationController

import (
	"log"

	"lms/database"
	"lms/middleware"
	gamificationModels "lms/models/gamification"

	"github.com/gofiber/fiber/v2"
)

// AddPoints appends a signed transaction to the points ledger and recomputes
// the user's level. The insert and the level update are not one transaction;
// the reconciliation job repairs a stale cache if the process dies between
// the two.
func AddPoints(userID uint, points int, txType string, referenceID *uint, description string) (*gamificationModels.PointsTransaction, error) {
	tx := gamificationModels.PointsTransaction{
		UserID:          userID,
		Points:          points,
		TransactionType: txType,
		ReferenceID:     referenceID,
		Description:     description,
	}

	if err := database.Database.Db.Create(&tx).Error; err != nil {
		return nil, err
	}

	if err := UpdateUserLevel(userID); err != nil {
		log.Printf("Error updating level for user %d after points transaction: %v", userID, err)
	}

	return &tx, nil
}

// GetUserPointsTotal returns the user's points total. The cached UserLevel
// snapshot is preferred; users without a level row yet fall back to summing
// the ledger directly.
func GetUserPointsTotal(userID uint) (int, error) {
	var userLevel gamificationModels.UserLevel
	if err := database.Database.Db.Where("user_id = ?", userID).First(&userLevel).Error; err == nil {
		return userLevel.CurrentPoints, nil
	}
	return sumLedger(userID)
}

// sumLedger computes the ledger sum for a user straight from the transactions
// table.
func sumLedger(userID uint) (int, error) {
	var total int64
	err := database.Database.Db.Model(&gamificationModels.PointsTransaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(points), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

// GetMyPoints returns the current user's points total
func GetMyPoints(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	total, err := GetUserPointsTotal(userID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch points!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Points fetched successfully!", fiber.Map{
		"total_points": total,
	})
}

// GetMyPointsTransactions returns the current user's ledger entries, newest first
func GetMyPointsTransactions(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var transactions []gamificationModels.PointsTransaction
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("created_at desc").Limit(limit).Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched successfully!", fiber.Map{
		"transactions": transactions,
		"total":        len(transactions),
	})
}

// AdminAddPoints lets an admin apply a manual points adjustment
func AdminAddPoints(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedManualPoints").(*struct {
		UserID      uint   `json:"user_id"`
		Points      int    `json:"points"`
		Description string `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	tx, err := AddPoints(reqData.UserID, reqData.Points, gamificationModels.TxManual, nil, reqData.Description)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to add points!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Points added successfully!", tx)
}
