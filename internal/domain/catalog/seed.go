package catalog

import (
	"context"

	"github.com/shopspring/decimal"
)

// SeedSource serves the built-in storefront catalog.
type SeedSource struct{}

var _ Source = SeedSource{}

// Services returns a fresh copy of the built-in services.
func (SeedSource) Services(_ context.Context) ([]Service, error) {
	return Seed(), nil
}

// Seed returns the built-in services in display order.
func Seed() []Service {
	return []Service{
		{
			ID:              "1",
			Title:           "Custom Web Application",
			Description:     "Scalable, modern web apps built with React and Node.js.",
			LongDescription: "Our team of expert developers will build a custom, responsive, and high-performance web application tailored to your specific business needs. From planning to deployment, we handle the full development lifecycle.",
			Price:           decimal.NewFromInt(2499),
			Category:        Development,
			Rating:          4.9,
			Reviews:         124,
			Image:           "https://images.unsplash.com/photo-1460925895917-afdab827c52f?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"Responsive UI/UX", "Cloud Integration", "SEO Optimized", "3 Months Support"},
		},
		{
			ID:              "2",
			Title:           "Brand Identity Design",
			Description:     "Logo, typography, and color palette for your brand.",
			LongDescription: "Create a lasting impression with a unique brand identity. We provide a comprehensive design package including a logo, brand guidelines, and social media assets that resonate with your target audience.",
			Price:           decimal.NewFromInt(899),
			Category:        Design,
			Rating:          4.8,
			Reviews:         86,
			Image:           "https://images.unsplash.com/photo-1572044162444-ad60f128bde2?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"3 Design Concepts", "Source Files Included", "Social Media Kit", "Unlimited Revisions"},
		},
		{
			ID:              "3",
			Title:           "Digital Marketing Package",
			Description:     "Comprehensive SEO, SEM, and social media growth.",
			LongDescription: "Boost your online presence and drive traffic with our integrated digital marketing strategy. We focus on ROI-driven campaigns that help your business scale through organic and paid channels.",
			Price:           decimal.NewFromInt(1500),
			Category:        Marketing,
			Rating:          4.7,
			Reviews:         210,
			Image:           "https://images.unsplash.com/photo-1533750349088-cd871a92f312?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"Keyword Research", "Ad Campaign Management", "Monthly Analytics", "Content Strategy"},
		},
		{
			ID:              "4",
			Title:           "UI/UX Mobile Design",
			Description:     "Modern and intuitive app interfaces for iOS and Android.",
			LongDescription: "User-centric mobile app design that ensures your customers have a seamless experience. We create high-fidelity prototypes and developer-ready handoff files using Figma.",
			Price:           decimal.NewFromInt(1200),
			Category:        Design,
			Rating:          4.9,
			Reviews:         54,
			Image:           "https://images.unsplash.com/photo-1551650975-87deedd944c3?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"Interactive Prototypes", "User Journey Mapping", "Design System", "Handoff Files"},
		},
		{
			ID:              "5",
			Title:           "Content Writing & Strategy",
			Description:     "High-quality articles and website copy that converts.",
			LongDescription: "Engage your audience with professionally written content. Our writers specialize in creating SEO-friendly articles, landing page copy, and blog posts that drive authority and conversions.",
			Price:           decimal.NewFromInt(450),
			Category:        Writing,
			Rating:          4.6,
			Reviews:         142,
			Image:           "https://images.unsplash.com/photo-1455390582262-044cdead277a?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"SEO Optimized", "Plagiarism Free", "2 Rounds of Edits", "Market Research"},
		},
		{
			ID:              "6",
			Title:           "Business Cloud Migration",
			Description:     "Transition your infrastructure to AWS or Azure safely.",
			LongDescription: "Modernize your business by moving to the cloud. We handle infrastructure assessment, migration strategy, and execution to ensure zero downtime and improved scalability.",
			Price:           decimal.NewFromInt(3500),
			Category:        Business,
			Rating:          5.0,
			Reviews:         31,
			Image:           "https://images.unsplash.com/photo-1451187580459-43490279c0fa?auto=format&fit=crop&q=80&w=800",
			Features:        []string{"Zero Downtime", "Cost Optimization", "Security Hardening", "Training Session"},
		},
	}
}
