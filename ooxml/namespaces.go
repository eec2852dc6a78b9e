// Package ooxml holds typed encoding/xml bindings for the OOXML
// SpreadsheetML parts this module understands, plus the fixed namespace,
// content-type, and relationship-type constants the package codec and style
// registry depend on.
package ooxml

// XML namespaces used across SpreadsheetML parts.
const (
	NSMain            = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	NSContentTypes    = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSRelationships   = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSOfficeDocRels   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSCoreProps       = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	NSExtendedProps   = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
	NSDublinCore      = "http://purl.org/dc/elements/1.1/"
	NSDublinCoreTerms = "http://purl.org/dc/terms/"
	NSDrawing         = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSSpreadsheetDraw = "http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
	NSChart           = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	NSX14             = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/main"
	NSX14AC           = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac"
	NSEncryption      = "http://schemas.microsoft.com/office/2006/encryption"
	NSPassword        = "http://schemas.microsoft.com/office/2006/keyEncryptor/password"
)

// Content-type MIME strings, emitted byte-for-byte on save.
const (
	CTWorkbook          = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml"
	CTWorksheet         = "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml"
	CTStyles            = "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml"
	CTSharedStrings     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml"
	CTTheme             = "application/vnd.openxmlformats-officedocument.theme+xml"
	CTCoreProps         = "application/vnd.openxmlformats-package.core-properties+xml"
	CTExtendedProps     = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
	CTComments          = "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml"
	CTThreadedComments  = "application/vnd.ms-excel.threadedcomments+xml"
	CTDrawing           = "application/vnd.openxmlformats-officedocument.drawing+xml"
	CTChart             = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	CTTable             = "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml"
	CTSlicer            = "application/vnd.ms-excel.slicer+xml"
	CTSlicerCache       = "application/vnd.ms-excel.slicerCache+xml"
	CTPivotCacheDef     = "application/vnd.openxmlformats-officedocument.spreadsheetml.pivotCacheDefinition+xml"
	CTPivotCacheRecords = "application/vnd.openxmlformats-officedocument.spreadsheetml.pivotCacheRecords+xml"
	CTPivotTable        = "application/vnd.openxmlformats-officedocument.spreadsheetml.pivotTable+xml"
	CTVML               = "application/vnd.openxmlformats-officedocument.vmlDrawing"
	CTCalcChain         = "application/vnd.openxmlformats-officedocument.spreadsheetml.calcChain+xml"
	CTRels              = "application/vnd.openxmlformats-package.relationships+xml"
	CTPlainXML          = "application/xml"
)

// Relationship type URIs, rooted at the officeDocument relationships schema.
const (
	RelOfficeDocument   = NSOfficeDocRels + "/officeDocument"
	RelWorksheet        = NSOfficeDocRels + "/worksheet"
	RelStyles           = NSOfficeDocRels + "/styles"
	RelSharedStrings    = NSOfficeDocRels + "/sharedStrings"
	RelTheme            = NSOfficeDocRels + "/theme"
	RelCoreProps        = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	RelExtendedProps    = NSOfficeDocRels + "/extended-properties"
	RelComments         = NSOfficeDocRels + "/comments"
	RelThreadedComment  = "http://schemas.microsoft.com/office/2017/10/relationships/threadedComment"
	RelVMLDrawing       = NSOfficeDocRels + "/vmlDrawing"
	RelDrawing          = NSOfficeDocRels + "/drawing"
	RelChart            = NSOfficeDocRels + "/chart"
	RelHyperlink        = NSOfficeDocRels + "/hyperlink"
	RelTable            = NSOfficeDocRels + "/table"
	RelPivotCacheDef    = NSOfficeDocRels + "/pivotCacheDefinition"
	RelPivotTable       = NSOfficeDocRels + "/pivotTable"
	RelCalcChain        = NSOfficeDocRels + "/calcChain"
	RelExternalLink     = NSOfficeDocRels + "/externalLink"
	RelImage            = NSOfficeDocRels + "/image"
)
