package itinerary

// Example returns the placeholder itinerary shown to the generation service
// as the shape of the JSON block it should append.
func Example() *Itinerary {
	return &Itinerary{
		TripOverview: Overview{
			Destination:  "destination name",
			DurationDays: 3,
			TripType:     "type of trip",
			BudgetRange:  "budget information",
			StartDate:    "YYYY-MM-DD",
			EndDate:      "YYYY-MM-DD",
		},
		Days: []DayPlan{{
			DayNumber: 1,
			Date:      "YYYY-MM-DD",
			Title:     "Day title/theme",
			Morning:   "Morning activities",
			Afternoon: "Afternoon activities",
			Evening:   "Evening activities",
			Meals: Meals{
				Breakfast: "Breakfast details",
				Lunch:     "Lunch details",
				Dinner:    "Dinner details",
			},
			Accommodation: "Accommodation details",
		}},
		Attractions: []Attraction{{
			Name:          "Attraction name",
			Description:   "Description of attraction",
			PriceRange:    "Entry price",
			VisitDuration: "Estimated time to visit",
		}},
		Accommodations: []Accommodation{{
			Name:        "Accommodation name",
			Description: "Description",
			PriceRange:  "Price information",
		}},
		Dining: []Dining{
			{Name: "Restaurant name 1", Cuisine: "Cuisine type 1", PriceRange: "Price range 1", MealType: "Meal type 1"},
			{Name: "Restaurant name 2", Cuisine: "Cuisine type 2", PriceRange: "Price range 2", MealType: "Meal type 2"},
		},
		Transportation: []Transport{{Type: "Transportation type", Details: "Details and recommendations"}},
		TravelTips:     []string{"Tip 1", "Tip 2"},
		Weather: &Weather{
			TemperatureRange:        &TemperatureRange{Min: 0, Max: 30, Unit: "Celsius"},
			Conditions:              "Weather conditions description",
			Precipitation:           "Expected precipitation",
			ClothingRecommendations: "Clothing recommendations",
		},
		Budget: map[string]Text{
			"total_estimated_cost": "estimated total cost",
			"accommodation_cost":   "estimated accommodation costs",
			"food_cost":            "estimated food costs",
			"transportation_cost":  "estimated transportation costs",
			"activities_cost":      "estimated activities/attractions costs",
			"miscellaneous_cost":   "estimated miscellaneous costs",
		},
		EssentialInfo: map[string]Text{
			"visa_requirements":  "visa details",
			"emergency_contacts": "emergency numbers",
			"local_customs":      "important local customs to be aware of",
			"safety_tips":        "safety information",
			"language":           "local language information",
			"currency_exchange":  "currency exchange information",
		},
	}
}
