package technologies

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/stackwatch/stackwatch-backend/model"
	"github.com/stackwatch/stackwatch-backend/util"
)

// PostTechnology handles POST requests to create and analyze a record.
func PostTechnology(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.TechnologyRequest

		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		if util.IsEmpty(req.Technology) || util.IsEmpty(req.CurrentVersion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "technology and current_version are required",
			})
		}

		ctx := context.Background()

		rec := model.NewTechnologyRecord(req.Technology, req.CurrentVersion)
		rec.Product = req.Product
		rec.Notes = req.Notes

		rec, err := deps.Store.Create(ctx, rec)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to create record: " + err.Error(),
			})
		}

		if rec, err = deps.Analyzer.AnalyzeAndSave(ctx, rec.Key); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Record created but analysis failed: " + err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    rec,
		})
	}
}

// GetTechnologies handles GET requests for the full record list.
func GetTechnologies(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := deps.Store.List(context.Background())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to list records: " + err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"success": true,
			"data":    records,
			"count":   len(records),
		})
	}
}

// GetTechnology handles GET requests for one record.
func GetTechnology(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := deps.Store.Get(context.Background(), c.Params("key"))
		if err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"success": false,
					"message": "Record not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to load record: " + err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": rec})
	}
}

// PutTechnology handles PUT requests updating the user-supplied fields.
// Changing the version invalidates the previous analysis, so a fresh pass
// runs before the response.
func PutTechnology(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.TechnologyRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}

		ctx := context.Background()
		rec, err := deps.Store.Get(ctx, c.Params("key"))
		if err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"success": false,
					"message": "Record not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to load record: " + err.Error(),
			})
		}

		reanalyze := false
		if req.Technology != "" && req.Technology != rec.Technology {
			rec.Technology = req.Technology
			reanalyze = true
		}
		if req.CurrentVersion != "" && req.CurrentVersion != rec.CurrentVersion {
			rec.CurrentVersion = req.CurrentVersion
			rec.ParseAndSetVersion()
			reanalyze = true
		}
		if req.Product != "" {
			rec.Product = req.Product
		}
		if req.Notes != "" {
			rec.Notes = req.Notes
		}

		if err := deps.Store.Update(ctx, rec); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to update record: " + err.Error(),
			})
		}

		if reanalyze {
			if rec, err = deps.Analyzer.AnalyzeAndSave(ctx, rec.Key); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"message": "Record updated but analysis failed: " + err.Error(),
				})
			}
		}

		return c.JSON(fiber.Map{"success": true, "data": rec})
	}
}

// PostAnalyze handles POST requests for manual re-analysis of one record.
func PostAnalyze(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := deps.Analyzer.AnalyzeAndSave(context.Background(), c.Params("key"))
		if err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"success": false,
					"message": "Record not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Analysis failed: " + err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "data": rec})
	}
}

// PostAnalyzeAll handles POST requests starting a sequential bulk pass over
// every record. Runs in the background; progress is polled via GetAnalyzeAllStatus.
func PostAnalyzeAll(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := context.Background()
		keys, err := deps.Store.Keys(ctx)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to list records: " + err.Error(),
			})
		}

		bulk := deps.bulkStatus()
		if !bulk.begin(len(keys)) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"success": false,
				"message": "A bulk analysis is already running",
			})
		}

		go func() {
			defer bulk.finish()
			log := deps.Logger.Sugar()
			for i, key := range keys {
				bulk.progress(i, key)
				if _, err := deps.Analyzer.AnalyzeAndSave(ctx, key); err != nil {
					// Deleted or failing records don't stop the pass.
					log.Warnf("bulk analysis skipped %s: %v", key, err)
				}
				bulk.progress(i+1, "")
				if i < len(keys)-1 {
					time.Sleep(deps.AnalyzeAllDelay)
				}
			}
			log.Infof("bulk analysis finished for %d records", len(keys))
		}()

		return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
			"success": true,
			"message": fmt.Sprintf("Analyzing %d records", len(keys)),
		})
	}
}

// GetAnalyzeAllStatus handles GET requests polling bulk-analysis progress.
func GetAnalyzeAllStatus(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    deps.bulkStatus().snapshot(),
		})
	}
}

// DeleteTechnology handles DELETE requests for one record.
func DeleteTechnology(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Store.Delete(context.Background(), c.Params("key")); err != nil {
			if errors.Is(err, model.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"success": false,
					"message": "Record not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to delete record: " + err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "message": "Record deleted"})
	}
}

// DeleteTechnologies handles DELETE requests clearing every record.
func DeleteTechnologies(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := deps.Store.DeleteAll(context.Background()); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to clear records: " + err.Error(),
			})
		}
		return c.JSON(fiber.Map{"success": true, "message": "All records deleted"})
	}
}

// PostImport handles POST requests ingesting pre-parsed bulk rows; each row
// is created and analyzed with the inter-record delay.
func PostImport(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req model.ImportRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "Invalid request body: " + err.Error(),
			})
		}
		if len(req.Rows) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"message": "at least one row must be provided",
			})
		}

		ctx := context.Background()
		result := model.ImportResult{}

		for i, row := range req.Rows {
			if util.IsEmpty(row.Technology) || util.IsEmpty(row.CurrentVersion) {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: technology and current_version are required", i+1))
				continue
			}

			rec := model.NewTechnologyRecord(row.Technology, row.CurrentVersion)
			rec.Product = row.Product
			rec.Notes = row.Notes

			rec, err := deps.Store.Create(ctx, rec)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
				continue
			}
			if _, err := deps.Analyzer.AnalyzeAndSave(ctx, rec.Key); err != nil {
				result.Errors = append(result.Errors, fmt.Sprintf("row %d: analysis failed: %v", i+1, err))
			}
			result.Created++

			if i < len(req.Rows)-1 {
				time.Sleep(deps.ImportDelay)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data":    result,
		})
	}
}

// GetExport handles GET requests returning the full record list for download.
func GetExport(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, err := deps.Store.List(context.Background())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"message": "Failed to export records: " + err.Error(),
			})
		}
		c.Set("Content-Disposition", `attachment; filename="technologies.json"`)
		return c.JSON(records)
	}
}

// GetSuggestions handles GET requests for catalog name autocomplete.
func GetSuggestions(deps Deps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"success": true,
			"data":    deps.Catalog.Suggestions(c.Query("q")),
		})
	}
}
