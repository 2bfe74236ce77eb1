// Copyright 2024 Policy Navigator Project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package agent

// SamplePolicyText is the bundled policy document used when no PDF path is
// supplied, so the pipeline can run end to end without a document upload.
const SamplePolicyText = `청년 지원 정책 안내

1. 청년도약계좌
지원 대상: 만 19세~34세 청년 중 개인소득 연 7,500만원 이하, 가구소득 중위 250% 이하.
지원 내용: 월 최대 70만원 납입 시 정부기여금 월 최대 3만 3천원 지급, 이자소득 비과세.
가입 기간: 5년 만기. 신청 방법: 취급 은행 앱에서 비대면 신청.

2. 청년 주택드림 청약통장
지원 대상: 만 19세~34세 무주택 청년, 연소득 5,000만원 이하.
지원 내용: 최대 이자율 연 4.5%, 납입액 40% 소득공제, 이자소득 500만원까지 비과세.
신청 방법: 주택도시기금 수탁 은행 방문 또는 앱 신청.

3. 청년월세 한시 특별지원
지원 대상: 만 19세~34세 독립 거주 무주택 청년 중 청년독립가구 소득이 기준 중위소득 60% 이하,
원가구 소득이 기준 중위소득 100% 이하인 경우. 보증금 5천만원 이하, 월세 70만원 이하 주택 거주.
지원 내용: 실제 납부 월세 범위 내 월 최대 20만원, 최장 12개월 지원.
신청 방법: 복지로 또는 거주지 행정복지센터.

4. 보육수당 비과세 한도 확대
지원 대상: 만 6세 이하 자녀를 둔 근로자 또는 종교인.
지원 내용: 회사에서 지급받는 보육수당 월 20만원까지 비과세.
비고: 자녀 수와 관계없이 근로자 1인당 한도 적용.

5. 청년형 소득공제 장기펀드
지원 대상: 총급여 5,000만원 이하 또는 종합소득 3,800만원 이하인 만 19세~34세 청년.
지원 내용: 납입액(연 600만원 한도)의 40% 소득공제, 가입 기간 3~5년.
유의 사항: 가입 후 3년 이내 해지 시 감면세액 추징.`
