package store

import (
	"time"

	"github.com/mmeshcher/trademaster/internal/model"
)

// AdminEmail задаёт адрес предустановленного администратора.
const AdminEmail = "admin@trademaster.com"

// DefaultUPIDetails содержит реквизиты получателя платежей по умолчанию.
var DefaultUPIDetails = model.UPIDetails{
	VPA:  "yourupi@upi",
	Name: "TradeMaster Academy",
}

// SeedState возвращает начальное состояние: каталог из четырёх курсов и администратор.
func SeedState(now time.Time) model.State {
	return model.State{
		CurrentUser:    nil,
		CurrentView:    model.ViewHome,
		SelectedCourse: nil,
		Courses:        sampleCourses(now),
		Users: []model.User{
			{
				ID:              "admin1",
				Email:           AdminEmail,
				Name:            "Admin",
				Role:            model.RoleAdmin,
				EnrolledCourses: []string{},
				CreatedAt:       now,
			},
		},
		Enrollments: []model.Enrollment{},
		UPIDetails:  DefaultUPIDetails,
		Toast: model.Toast{
			Show:    false,
			Message: "",
			Type:    model.ToastInfo,
		},
	}
}

func module(id, title, description, content, duration string, order int) model.CourseModule {
	return model.CourseModule{
		ID:          id,
		Title:       title,
		Description: description,
		Content:     content,
		Duration:    duration,
		Order:       order,
		IsLocked:    order > 1,
	}
}

func sampleCourses(now time.Time) []model.Course {
	return []model.Course{
		{
			ID:            "1",
			Title:         "Stock Market Fundamentals",
			Description:   "Learn the basics of stock market trading, including technical analysis, fundamental analysis, and risk management strategies.",
			Price:         1999,
			OriginalPrice: 3999,
			Thumbnail:     "https://images.unsplash.com/photo-1611974765270-ca1258634369?w=800&q=80",
			Modules: []model.CourseModule{
				module("m1", "Introduction to Stock Market", "Understanding basics", "Stock market basics content here...", "20 min", 1),
				module("m2", "Technical Analysis Basics", "Charts and patterns", "Technical analysis content...", "45 min", 2),
				module("m3", "Fundamental Analysis", "Company valuation", "Fundamental analysis content...", "35 min", 3),
			},
			Instructor:  "Rajesh Sharma",
			Duration:    "12 hours",
			Level:       model.LevelBeginner,
			Category:    "Equity",
			Password:    "STOCK101",
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:            "2",
			Title:         "Advanced Options Trading",
			Description:   "Master options trading strategies including spreads, straddles, and hedging techniques for consistent profits.",
			Price:         4999,
			OriginalPrice: 9999,
			Thumbnail:     "https://images.unsplash.com/photo-1590283603385-17ffb3a7f29f?w=800&q=80",
			Modules: []model.CourseModule{
				module("m1", "Options Basics", "Calls and Puts", "Options basics...", "30 min", 1),
				module("m2", "Option Strategies", "Spreads and Combinations", "Strategies content...", "60 min", 2),
				module("m3", "Greeks Explained", "Delta, Gamma, Theta", "Greeks content...", "45 min", 3),
			},
			Instructor:  "Priya Patel",
			Duration:    "20 hours",
			Level:       model.LevelAdvanced,
			Category:    "Derivatives",
			Password:    "OPTIONS999",
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:            "3",
			Title:         "Forex Trading Mastery",
			Description:   "Complete guide to currency trading with live market analysis and trading psychology.",
			Price:         3499,
			OriginalPrice: 6999,
			Thumbnail:     "https://images.unsplash.com/photo-1526304640581-d334cdbbf45e?w=800&q=80",
			Modules: []model.CourseModule{
				module("m1", "Forex Market Structure", "Currency pairs", "Forex structure...", "25 min", 1),
				module("m2", "Technical Analysis for Forex", "Indicators", "Forex technical analysis...", "50 min", 2),
			},
			Instructor:  "Amit Kumar",
			Duration:    "15 hours",
			Level:       model.LevelIntermediate,
			Category:    "Forex",
			Password:    "FOREX777",
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
		{
			ID:            "4",
			Title:         "Crypto Trading Pro",
			Description:   "Learn to trade cryptocurrencies with blockchain fundamentals and DeFi strategies.",
			Price:         2999,
			OriginalPrice: 5999,
			Thumbnail:     "https://images.unsplash.com/photo-1518546305927-5a555bb7020d?w=800&q=80",
			Modules: []model.CourseModule{
				module("m1", "Crypto Basics", "Blockchain fundamentals", "Crypto basics...", "30 min", 1),
				module("m2", "Trading Strategies", "Day trading and HODL", "Trading strategies...", "55 min", 2),
			},
			Instructor:  "Neha Gupta",
			Duration:    "10 hours",
			Level:       model.LevelBeginner,
			Category:    "Crypto",
			Password:    "CRYPTO888",
			IsPublished: true,
			CreatedAt:   now,
			UpdatedAt:   now,
		},
	}
}
