package main

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foodwagen/foodwagen/pkg/client"
)

var (
	mealName       string
	mealPrice      float64
	mealRating     float64
	mealRestaurant string
	mealStatus     string
	mealImagePath  string
	mealLogoPath   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all food items",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := client.NewMealsStore(apiClient())
		store.FetchMeals(context.Background())

		snap := store.Snapshot()
		if snap.Fetch.Status == client.OpFailed {
			return snap.Fetch.Err
		}
		printMeals(cmd, snap.Meals)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <name>",
	Short: "Search food items by name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := client.NewMealsStore(apiClient())
		store.SearchMeals(context.Background(), args[0])

		snap := store.Snapshot()
		if snap.Search.Status == client.OpFailed {
			return snap.Search.Err
		}
		if len(snap.SearchResults) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No food items found.")
			return nil
		}
		printMeals(cmd, snap.SearchResults)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a food item with its image and restaurant logo",
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := readImage(mealImagePath)
		if err != nil {
			return err
		}
		logo, err := readImage(mealLogoPath)
		if err != nil {
			return err
		}

		store := client.NewMealsStore(apiClient())
		err = store.CreateMeal(context.Background(), client.NewMeal{
			Name:           mealName,
			Price:          mealPrice,
			Rating:         mealRating,
			RestaurantName: mealRestaurant,
			Status:         mealStatus,
			Image:          image,
			Logo:           logo,
		})
		if err != nil {
			return err
		}

		meal := store.Snapshot().Meals[0]
		fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", meal.Name, meal.ID)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a food item, keeping images unless new files are given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		api := apiClient()
		id := args[0]

		current, err := api.GetMeal(context.Background(), id)
		if err != nil {
			return err
		}

		edit, err := editFromFlags(cmd, current)
		if err != nil {
			return err
		}

		store := client.NewMealsStore(api)
		if err := store.UpdateMealByID(context.Background(), id, edit); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", edit.Name, id)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a food item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store := client.NewMealsStore(apiClient())
		if err := store.DeleteMealByID(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Food item deleted successfully")
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&mealName, "name", "", "Food name")
	addCmd.Flags().Float64Var(&mealPrice, "price", 0, "Food price")
	addCmd.Flags().Float64Var(&mealRating, "rating", 0, "Food rating (0-5)")
	addCmd.Flags().StringVar(&mealRestaurant, "restaurant", "", "Restaurant name")
	addCmd.Flags().StringVar(&mealStatus, "status", "Open Now", `Restaurant status ("Open Now" or "Closed")`)
	addCmd.Flags().StringVar(&mealImagePath, "image", "", "Path to the food image file")
	addCmd.Flags().StringVar(&mealLogoPath, "logo", "", "Path to the restaurant logo file")
	addCmd.MarkFlagRequired("name")
	addCmd.MarkFlagRequired("price")
	addCmd.MarkFlagRequired("restaurant")
	addCmd.MarkFlagRequired("image")
	addCmd.MarkFlagRequired("logo")

	updateCmd.Flags().StringVar(&mealName, "name", "", "Food name")
	updateCmd.Flags().Float64Var(&mealPrice, "price", 0, "Food price")
	updateCmd.Flags().Float64Var(&mealRating, "rating", 0, "Food rating (0-5)")
	updateCmd.Flags().StringVar(&mealRestaurant, "restaurant", "", "Restaurant name")
	updateCmd.Flags().StringVar(&mealStatus, "status", "", `Restaurant status ("Open Now" or "Closed")`)
	updateCmd.Flags().StringVar(&mealImagePath, "image", "", "Path to a new food image file")
	updateCmd.Flags().StringVar(&mealLogoPath, "logo", "", "Path to a new restaurant logo file")

	rootCmd.AddCommand(listCmd, searchCmd, addCmd, updateCmd, deleteCmd)
}

func printMeals(cmd *cobra.Command, meals []client.MealView) {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tRATING\tRESTAURANT\tSTATUS")
	for _, m := range meals {
		fmt.Fprintf(tw, "%s\t%s\t$%s\t%.1f\t%s\t%s\n",
			m.ID, m.Name, m.Price, m.Rating, m.Restaurant.Name, m.Status)
	}
	tw.Flush()
}

func readImage(path string) (client.ImageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return client.ImageFile{}, fmt.Errorf("read image %s: %w", path, err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return client.ImageFile{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// editFromFlags starts from the stored meal and overrides only the flags the
// user set, so an update without a field flag keeps the current value.
func editFromFlags(cmd *cobra.Command, current client.MealView) (client.MealEdit, error) {
	price, err := strconv.ParseFloat(current.Price, 64)
	if err != nil {
		return client.MealEdit{}, fmt.Errorf("parse current price %q: %w", current.Price, err)
	}

	status := "Closed"
	if current.Status == "Open" {
		status = "Open Now"
	}

	edit := client.MealEdit{
		Name:           current.Name,
		Price:          price,
		Rating:         current.Rating,
		RestaurantName: current.Restaurant.Name,
		Status:         status,
		Image:          client.ImageSource{URL: current.ImageURL},
		Logo:           client.ImageSource{URL: current.Restaurant.LogoURL},
	}

	if cmd.Flags().Changed("name") {
		edit.Name = mealName
	}
	if cmd.Flags().Changed("price") {
		edit.Price = mealPrice
	}
	if cmd.Flags().Changed("rating") {
		edit.Rating = mealRating
	}
	if cmd.Flags().Changed("restaurant") {
		edit.RestaurantName = mealRestaurant
	}
	if cmd.Flags().Changed("status") {
		edit.Status = mealStatus
	}
	if cmd.Flags().Changed("image") {
		file, err := readImage(mealImagePath)
		if err != nil {
			return client.MealEdit{}, err
		}
		edit.Image = client.ImageSource{File: &file}
	}
	if cmd.Flags().Changed("logo") {
		file, err := readImage(mealLogoPath)
		if err != nil {
			return client.MealEdit{}, err
		}
		edit.Logo = client.ImageSource{File: &file}
	}
	return edit, nil
}
