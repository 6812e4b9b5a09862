package extract

import (
	"context"
	"testing"
)

const sampleForm4 = `<?xml version="1.0"?>
<ownershipDocument>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001214156</rptOwnerCik>
      <rptOwnerName>COOK TIMOTHY D</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>1</isDirector>
      <isOfficer>1</isOfficer>
      <isTenPercentOwner>0</isTenPercentOwner>
      <officerTitle>Chief Executive Officer</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <securityTitle><value>Common Stock</value></securityTitle>
      <transactionDate><value>2026-07-15</value></transactionDate>
      <transactionCoding>
        <transactionCode>S</transactionCode>
      </transactionCoding>
      <transactionAmounts>
        <transactionShares><value>5000</value></transactionShares>
        <transactionPricePerShare><value>190.50</value></transactionPricePerShare>
      </transactionAmounts>
      <postTransactionAmounts>
        <sharesOwnedFollowingTransaction><value>3200000</value></sharesOwnedFollowingTransaction>
      </postTransactionAmounts>
      <ownershipNature>
        <directOrIndirectOwnership><value>D</value></directOrIndirectOwnership>
      </ownershipNature>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

func TestForm4ParsesTransaction(t *testing.T) {
	result, err := Form4(context.Background(), []byte(sampleForm4), "0000320193-26-000042")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 transaction, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.IssuerCIK != "0000320193" || rec.IssuerName != "Apple Inc." {
		t.Errorf("issuer fields wrong: %+v", rec)
	}
	if rec.OwnerName != "COOK TIMOTHY D" {
		t.Errorf("owner name wrong: %q", rec.OwnerName)
	}
	if rec.TransactionCode != "S" || rec.TransactionType != "Sale" {
		t.Errorf("expected Sale transaction, got code=%q type=%q", rec.TransactionCode, rec.TransactionType)
	}
	if rec.Shares != 5000 || rec.PricePerShare != 190.50 {
		t.Errorf("shares/price wrong: %+v", rec)
	}
	if rec.TotalValue != 5000*190.50 {
		t.Errorf("expected total value to be shares*price, got %f", rec.TotalValue)
	}
	if rec.IsDerivative {
		t.Error("expected non-derivative transaction")
	}
}

func TestForm4SkipsNonXML(t *testing.T) {
	result, err := Form4(context.Background(), []byte("<html><body>old style form</body></html>"), "acc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 0 {
		t.Error("expected pre-2005 HTML Form 4 to be skipped with no records")
	}
}
