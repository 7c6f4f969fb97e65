package handlers

// @title GST Invoice API
// @version 1.0
// @description Invoicing backend for small Indian retail shops: GST-compliant invoices with CGST/SGST splits, sequential numbering, stock tracking, PDF rendering and UPI payment QR codes
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/your-org/gst-invoice-api
// @contact.email support@gst-invoice.example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8081
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name customers
// @tag.description Customer management operations

// @tag.name products
// @tag.description Product catalog and stock operations

// @tag.name invoices
// @tag.description Invoice creation, lookup, PDF and UPI QR operations

// @tag.name tax
// @tag.description Stateless GST calculation previews

// @tag.name reports
// @tag.description Sales reporting

// @tag.name settings
// @tag.description Shop profile settings

// @tag.name auth
// @tag.description Authentication operations
