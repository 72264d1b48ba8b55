package invoice

// Column headers expected in the uploaded workbook
const (
	ColumnClientNumber   = "Numéro_client"
	ColumnClientAddress  = "addresse_client"
	ColumnContractNumber = "Numéro_contrat"
	ColumnInvoiceNumber  = "Numéro_facture"
	ColumnAmountHT       = "montant_ht"
	ColumnAmountTVA      = "montant_tva"
	ColumnDate           = "date"
)

// RequiredColumns lists mandatory headers in the order they are reported
var RequiredColumns = []string{
	ColumnClientNumber,
	ColumnClientAddress,
	ColumnContractNumber,
	ColumnInvoiceNumber,
	ColumnAmountHT,
	ColumnAmountTVA,
}

// OptionalColumns lists headers that are read when present
var OptionalColumns = []string{ColumnDate}

// AmountColumns lists headers that must hold numbers
var AmountColumns = []string{ColumnAmountHT, ColumnAmountTVA}

// SampleRows is an example sheet body matching RequiredColumns + OptionalColumns
func SampleRows() [][]interface{} {
	return [][]interface{}{
		{ColumnClientNumber, ColumnClientAddress, ColumnContractNumber, ColumnInvoiceNumber, ColumnAmountHT, ColumnAmountTVA, ColumnDate},
		{"C001", "123 Rue A", "C001-001", "F001", 100.00, 20.00, "2024-01-15"},
		{"C001", "123 Rue A", "C001-002", "F002", 200.00, 40.00, "2024-01-20"},
		{"C002", "456 Rue B", "C002-001", "F003", 150.00, 30.00, "2024-01-18"},
	}
}
