package internal

// FieldKind is the closed set of semantic product fields a spreadsheet
// column can map to.
type FieldKind string

const (
	FieldName          FieldKind = "name"
	FieldCode          FieldKind = "code"
	FieldPrice         FieldKind = "price"
	FieldCategory      FieldKind = "category"
	FieldManufacturer  FieldKind = "manufacturer"
	FieldDimensions    FieldKind = "dimensions"
	FieldColor         FieldKind = "color"
	FieldMaterial      FieldKind = "material"
	FieldStock         FieldKind = "stock"
	FieldTechnicalDesc FieldKind = "technicalDescription"
)

type ColumnType string

const (
	ColumnPrice   ColumnType = "price"
	ColumnCode    ColumnType = "code"
	ColumnName    ColumnType = "name"
	ColumnNumeric ColumnType = "numeric"
	ColumnString  ColumnType = "string"
	ColumnUnknown ColumnType = "unknown"
)

// ColumnProfile aggregates content-typing counts over one column.
type ColumnProfile struct {
	Column           string
	NonEmpty         int
	PriceFormatCount int
	NumericCount     int
	WordCount        int
	CodePatternCount int
	Type             ColumnType
	Confidence       float64
}

// FieldMapping maps a column letter to the semantic field stored there.
// A column maps to at most one field and a field to at most one column.
type FieldMapping map[string]FieldKind

// FormatDetection is the outcome of scanning a sheet's top rows.
// HeaderRow is 0-based; -1 means no header row was found.
type FormatDetection struct {
	HeaderRow     int
	Confidence    float64
	Columns       FieldMapping
	MatchedFields []FieldKind
	IsKnownFormat bool
}

// ExtractedImage is one embedded raster image surfaced from the workbook
// archive. AnchorRow is the 1-based sheet row the image is anchored to,
// 0 when unknown.
type ExtractedImage struct {
	Filename     string
	Path         string
	OriginalPath string
	Data         []byte
	AnchorRow    int
	AltText      string
}

// ProductRecord is one normalized catalog line item. PriceCents holds the
// price in minor currency units. ImageURL stays nil until reconciliation
// attaches an uploaded image.
type ProductRecord struct {
	ID           int64
	CatalogID    int64
	Name         string
	Code         string
	Description  string
	PriceCents   int64
	Category     string
	Manufacturer string
	Dimensions   string
	Materials    []string
	Colors       []string
	Quantity     int
	SourceRow    int
	ImageURL     *string
}

type MatchStrategy string

const (
	StrategyCode     MatchStrategy = "CODE"
	StrategyPosition MatchStrategy = "POSITION"
	StrategyTokens   MatchStrategy = "TOKENS"
	StrategyFallback MatchStrategy = "FALLBACK"
)

// ImageMapping associates one product (by index into the reconciled slice)
// with one extracted image (by index into the image pool).
type ImageMapping struct {
	ProductIndex int
	ImageIndex   int
	Confidence   float64
	Strategy     MatchStrategy
}

// CatalogRow is a persisted catalog file registration.
type CatalogRow struct {
	ID        int64
	Filename  string
	Status    string
	CreatedAt string
}

// IngestReport is the always-returned summary of one ingestion, so partial
// success stays observable.
type IngestReport struct {
	CatalogID         int64 `json:"catalogId"`
	TotalRows         int   `json:"totalRows"`
	ProductsExtracted int   `json:"productsExtracted"`
	RowsSkipped       int   `json:"rowsSkipped"`
	ImagesExtracted   int   `json:"imagesExtracted"`
	ImagesSkipped     int   `json:"imagesSkipped"`
	ImagesMatched     int   `json:"imagesMatched"`
}
