package olas

// css selectors of the registry's ant design table
const (
	TableBodySelector = "tbody.ant-table-tbody"
	RowSelector       = "tbody.ant-table-tbody tr.ant-table-row"
	CellSelector      = "td"
	TooltipSelector   = ".ant-tooltip-inner"
	NextSelector      = "li.ant-pagination-next:not(.ant-pagination-disabled) button"
)
